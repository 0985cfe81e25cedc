package spacetraveling

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/marcelafreire/desafio-spacetraveling/views"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// summaries converts listing posts to view models, formatting dates once.
func (a *App) summaries(posts []Post) []views.PostSummary {
	out := make([]views.PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, views.PostSummary{
			UID:      p.UID,
			Title:    p.Data.Title,
			Subtitle: p.Data.Subtitle,
			Author:   p.Data.Author,
			Date:     FormatDate(p.FirstPublicationDate, a.locale),
		})
	}
	return out
}

func (a *App) articleView(article Article) views.Article {
	p := article.Post
	v := views.Article{
		UID:            p.UID,
		Title:          p.Data.Title,
		Subtitle:       p.Data.Subtitle,
		Author:         p.Data.Author,
		Date:           FormatDate(p.FirstPublicationDate, a.locale),
		BannerURL:      p.Data.Banner.URL,
		ReadingMinutes: article.ReadingMinutes,
		Sections:       make([]views.Section, 0, len(p.Data.Content)),
	}
	if p.FirstPublicationDate != nil {
		v.PublishedISO = p.FirstPublicationDate.Format(time.RFC3339)
	}
	for _, s := range p.Data.Content {
		v.Sections = append(v.Sections, views.Section{Heading: s.Heading, Body: s.Body})
	}
	return v
}

// renderPost is the page cache's RenderFunc: fetch, map and render the full
// detail page for uid.
func (a *App) renderPost(ctx context.Context, uid string) ([]byte, error) {
	article, err := a.Repo.Article(ctx, uid)
	if err != nil {
		return nil, err
	}
	return RenderBytes(ctx, views.Post(a.site(), a.articleView(article)))
}
