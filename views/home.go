package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Home renders the listing page: the first batch of posts and, when a cursor
// is present, the load-more control.
func Home(cfg SiteConfig, posts []PostSummary, nextCursor string) templ.Component {
	meta := PageMeta{
		Title:       cfg.Labels().HomeTitle,
		Description: cfg.Description,
		URL:         buildURL(cfg.URL),
		OGType:      "website",
	}
	return Layout(cfg, meta, WebsiteJsonLD(cfg), homeBody(cfg, posts, nextCursor))
}

func homeBody(cfg SiteConfig, posts []PostSummary, nextCursor string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<main class="container posts-page"><div id="posts">`)
		h.component(PostList(posts))
		h.raw(`</div>`)
		h.component(LoadMoreControl(cfg, nextCursor))
		h.raw(`</main>`)
		return h.err
	})
}

// PostList renders listing entries in order.
func PostList(posts []PostSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		for _, p := range posts {
			h.raw(`<article class="post-item">`)
			if p.UID != "" {
				h.raw(`<a href="`)
				h.url(PostHref(p.UID))
				h.raw(`">`)
			}
			h.raw(`<h2>`)
			h.text(p.Title)
			h.raw(`</h2><p>`)
			h.text(p.Subtitle)
			h.raw(`</p><div class="infos">`)
			if p.Date != "" {
				h.raw(`<span class="info info-date"><time>`)
				h.text(p.Date)
				h.raw(`</time></span>`)
			}
			h.raw(`<span class="info info-author">`)
			h.text(p.Author)
			h.raw(`</span></div>`)
			if p.UID != "" {
				h.raw(`</a>`)
			}
			h.raw(`</article>`)
		}
		return h.err
	})
}

// LoadMoreControl renders the load-more button for cursor. Nothing is
// rendered once the cursor is exhausted.
func LoadMoreControl(cfg SiteConfig, cursor string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if cursor == "" {
			return nil
		}
		h := newWriter(ctx, w)
		h.raw(`<div id="load-more" class="load-more"><a class="button" data-load-more href="`)
		h.url(MoreHref(cursor))
		h.raw(`">`)
		h.text(cfg.Labels().LoadMore)
		h.raw(`</a></div>`)
		return h.err
	})
}

// LoadMoreError renders the retry affordance shown after a failed load-more.
// It retries the same cursor.
func LoadMoreError(cfg SiteConfig, cursor string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		l := cfg.Labels()
		h := newWriter(ctx, w)
		h.raw(`<div id="load-more" class="load-more load-more-failed" role="alert"><p>`)
		h.text(l.LoadFailed)
		h.raw(`</p><a class="button" data-load-more href="`)
		h.url(MoreHref(cursor))
		h.raw(`">`)
		h.text(l.Retry)
		h.raw(`</a></div>`)
		return h.err
	})
}

// MorePosts is the load-more fragment: the appended posts followed by the
// replacement control.
func MorePosts(posts []PostSummary, control templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<template data-posts>`)
		h.component(PostList(posts))
		h.raw(`</template>`)
		h.component(control)
		return h.err
	})
}

// MorePostsPage renders a fetched page as a full document, for clients that
// follow the load-more link without script support.
func MorePostsPage(cfg SiteConfig, posts []PostSummary, control templ.Component) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.raw(`<main class="container posts-page"><div id="posts">`)
		h.component(PostList(posts))
		h.raw(`</div>`)
		h.component(control)
		h.raw(`</main>`)
		return h.err
	})
	meta := PageMeta{Title: cfg.Labels().HomeTitle, OGType: "website"}
	return Layout(cfg, meta, "", body)
}
