package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the full HTML document with head metadata and header.
func Layout(cfg SiteConfig, meta PageMeta, jsonLD string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		title := cfg.Name
		if meta.Title != "" {
			title = meta.Title + " | " + cfg.Name
		}
		h.raw(`<!DOCTYPE html><html lang="`)
		h.text(cfg.Labels().LangAttribute)
		h.raw(`"><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/><title>`)
		h.text(title)
		h.raw(`</title>`)
		if meta.Description != "" {
			h.raw(`<meta name="description" content="`)
			h.text(meta.Description)
			h.raw(`"/><meta property="og:description" content="`)
			h.text(meta.Description)
			h.raw(`"/>`)
		}
		h.raw(`<meta property="og:title" content="`)
		h.text(title)
		h.raw(`"/>`)
		if meta.URL != "" {
			h.raw(`<link rel="canonical" href="`)
			h.url(meta.URL)
			h.raw(`"/><meta property="og:url" content="`)
			h.url(meta.URL)
			h.raw(`"/>`)
		}
		if meta.OGType != "" {
			h.raw(`<meta property="og:type" content="`)
			h.text(meta.OGType)
			h.raw(`"/>`)
		}
		if meta.Image != "" {
			h.raw(`<meta property="og:image" content="`)
			h.url(meta.Image)
			h.raw(`"/>`)
		}
		h.raw(`<link rel="alternate" type="application/rss+xml" title="`)
		h.text(cfg.Name)
		h.raw(`" href="/feed.xml"/><link rel="stylesheet" href="/public/app.css"/>`)
		if jsonLD != "" {
			h.raw(`<script type="application/ld+json">`, jsonLD, `</script>`)
		}
		h.raw(`<script src="/public/app.js" defer></script></head><body>`)
		h.component(Header(cfg))
		h.component(body)
		h.raw(`</body></html>`)
		return h.err
	})
}

// Header renders the site header with the logo linking home.
func Header(cfg SiteConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<header class="header"><nav><a href="/"><img src="/public/logo.svg" alt="`)
		h.text(cfg.Name)
		h.raw(`"/></a></nav></header>`)
		return h.err
	})
}
