package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// NotFound renders the full 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: cfg.Labels().NotFound}, "", NotFoundPartial(cfg))
}

// NotFoundPartial is the 404 body, also returned to the fallback placeholder
// when the uid does not exist.
func NotFoundPartial(cfg SiteConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		l := cfg.Labels()
		h := newWriter(ctx, w)
		h.raw(`<main class="container status not-found"><h1>`)
		h.text(l.NotFound)
		h.raw(`</h1><p>`)
		h.text(l.NotFoundBody)
		h.raw(`</p><a href="/">`)
		h.text(l.BackHome)
		h.raw(`</a></main>`)
		return h.err
	})
}

// ServerError renders the generic error page. Details stay in the logs.
func ServerError(cfg SiteConfig) templ.Component {
	l := cfg.Labels()
	return Layout(cfg, PageMeta{Title: l.ServerError}, "", statusBody("server-error", l.ServerError, "", l))
}

// ServerErrorPartial is the error body returned to the fallback placeholder.
// retryHref, when set, links to a synchronous render of the same post.
func ServerErrorPartial(cfg SiteConfig, retryHref string) templ.Component {
	l := cfg.Labels()
	return statusBody("server-error", l.ServerError, retryHref, l)
}

// TooManyRequestsPartial is returned to the fallback placeholder when the
// client is rate limited.
func TooManyRequestsPartial(cfg SiteConfig, retryHref string) templ.Component {
	l := cfg.Labels()
	return statusBody("too-many-requests", l.TooManyRequests, retryHref, l)
}

func statusBody(class, message, retryHref string, l Labels) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<main class="container status ` + class + `" role="alert"><h1>`)
		h.text(message)
		h.raw(`</h1>`)
		if retryHref != "" {
			h.raw(`<a class="button" href="`)
			h.url(retryHref)
			h.raw(`">`)
			h.text(l.Retry)
			h.raw(`</a> `)
		}
		h.raw(`<a href="/">`)
		h.text(l.BackHome)
		h.raw(`</a></main>`)
		return h.err
	})
}
