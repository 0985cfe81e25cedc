package views

import "github.com/marcelafreire/desafio-spacetraveling/richtext"

// SiteConfig holds site-wide settings populated from configuration.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string // SITE_NAME
	URL         string // SITE_URL
	Description string // SITE_DESCRIPTION
	Locale      string // matched SITE_LOCALE, e.g. "pt-BR"
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
}

// PostSummary is a listing entry with its date already formatted.
type PostSummary struct {
	UID      string
	Title    string
	Subtitle string
	Author   string
	Date     string
}

// Article is the detail page view model.
type Article struct {
	UID            string
	Title          string
	Subtitle       string
	Author         string
	Date           string
	PublishedISO   string
	BannerURL      string
	ReadingMinutes int
	Sections       []Section
}

// Section is one heading plus its rich text body.
type Section struct {
	Heading string
	Body    richtext.RichText
}
