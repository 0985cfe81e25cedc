package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/marcelafreire/desafio-spacetraveling/richtext"
)

// Post renders the full detail page for an article.
func Post(cfg SiteConfig, a Article) templ.Component {
	meta := PageMeta{
		Title:       a.Title,
		Description: a.Subtitle,
		URL:         buildURL(cfg.URL, "post", a.UID),
		OGType:      "article",
		Image:       a.BannerURL,
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<div id="post-root">`)
		h.component(ArticleFragment(cfg, a))
		h.raw(`</div>`)
		return h.err
	})
	return Layout(cfg, meta, BlogPostingJsonLD(cfg, a), body)
}

// ArticleFragment is the article markup without the surrounding document. It
// is also what the fallback placeholder swaps in.
func ArticleFragment(cfg SiteConfig, a Article) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		if a.BannerURL != "" {
			h.raw(`<img class="banner" src="`)
			h.url(a.BannerURL)
			h.raw(`" alt="`)
			h.text(a.Title)
			h.raw(`"/>`)
		}
		h.raw(`<main class="container post"><article><h1>`)
		h.text(a.Title)
		h.raw(`</h1><div class="infos">`)
		if a.Date != "" {
			h.raw(`<span class="info info-date"><time`)
			if a.PublishedISO != "" {
				h.raw(` datetime="`)
				h.text(a.PublishedISO)
				h.raw(`"`)
			}
			h.raw(`>`)
			h.text(a.Date)
			h.raw(`</time></span>`)
		}
		h.raw(`<span class="info info-author">`)
		h.text(a.Author)
		h.raw(`</span><span class="info info-reading">`)
		h.text(fmt.Sprintf(cfg.Labels().ReadingTime, a.ReadingMinutes))
		h.raw(`</span></div>`)
		for _, s := range a.Sections {
			h.raw(`<section class="post-section"><h2>`)
			h.text(s.Heading)
			h.raw(`</h2><div class="post-body">`)
			h.component(richtext.HTML(s.Body))
			h.raw(`</div></section>`)
		}
		h.raw(`</article></main>`)
		return h.err
	})
}

// PostLoading is the placeholder served for a uid that has not been rendered
// yet. The script swaps in the fragment at data-fallback; without script the
// reader follows the link to the server-rendered page.
func PostLoading(cfg SiteConfig, uid string) templ.Component {
	l := cfg.Labels()
	meta := PageMeta{Title: l.Loading, URL: buildURL(cfg.URL, "post", uid)}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<div id="post-root" data-fallback="`)
		h.url(PostHref(uid) + "?partial=post")
		h.raw(`"><main class="container post loading" aria-busy="true"><p>`)
		h.text(l.Loading)
		h.raw(`</p><noscript><a href="`)
		h.url(PostHref(uid) + "?render=1")
		h.raw(`">`)
		h.text(l.ContinueNoJS)
		h.raw(`</a></noscript></main></div>`)
		return h.err
	})
	return Layout(cfg, meta, "", body)
}
