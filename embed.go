package spacetraveling

import "embed"

// EmbeddedAssets contains the static assets shipped with the site:
// app.js, app.css, logo.svg
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
