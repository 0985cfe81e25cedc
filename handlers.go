package spacetraveling

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/marcelafreire/desafio-spacetraveling/prismic"
	"github.com/marcelafreire/desafio-spacetraveling/views"
)

// fragmentHeader marks load-more requests made by the browser script, which
// swaps the response into the page instead of navigating to it.
const fragmentHeader = "X-Fragment"

func (a *App) handleHome(c echo.Context) error {
	page, err := a.Repo.HomePage(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, views.Home(a.site(), a.summaries(page.Results), page.NextPage))
}

func (a *App) handleMore(c echo.Context) error {
	cursor := c.QueryParam("cursor")
	if cursor == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing cursor")
	}
	site := a.site()
	respond := func(code int, posts []Post, control templ.Component) error {
		if c.Request().Header.Get(fragmentHeader) == "true" {
			return RenderStatus(c, code, views.MorePosts(a.summaries(posts), control))
		}
		return RenderStatus(c, code, views.MorePostsPage(site, a.summaries(posts), control))
	}

	listing := NewListing(PostsPagination{NextPage: cursor}, a.Repo, a.policy, a.Logger)
	outcome, err := listing.LoadMore(c.Request().Context())
	switch {
	case outcome == LoadSucceeded:
		state := listing.State()
		return respond(http.StatusOK, state.Results, views.LoadMoreControl(site, state.NextPage))
	case outcome == LoadFailed && err == nil:
		// silent policy: the control stays as it was
		return respond(http.StatusOK, nil, views.LoadMoreControl(site, cursor))
	case errors.Is(err, prismic.ErrForeignCursor):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cursor")
	case err != nil:
		c.Logger().Warnf("load more failed: %v", err)
		return respond(http.StatusBadGateway, nil, views.LoadMoreError(site, cursor))
	default:
		return respond(http.StatusOK, nil, views.LoadMoreControl(site, ""))
	}
}

func (a *App) handlePost(c echo.Context) error {
	uid := c.Param("uid")
	ctx := c.Request().Context()
	site := a.site()

	switch {
	case c.QueryParam("partial") == "post":
		c.Response().Header().Set("Cache-Control", "no-store")
		article, err := a.Repo.Article(ctx, uid)
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFoundPartial(site))
		}
		if err != nil {
			return err
		}
		view := a.articleView(article)
		if html, err := RenderBytes(ctx, views.Post(site, view)); err == nil {
			a.Cache.Put(ctx, uid, html)
		}
		return Render(c, views.ArticleFragment(site, view))

	case c.QueryParam("render") != "":
		html, err := a.Cache.Render(ctx, uid)
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(site))
		}
		if err != nil {
			return err
		}
		return c.HTMLBlob(http.StatusOK, html)
	}

	if html, ok := a.Cache.Get(ctx, uid); ok {
		return c.HTMLBlob(http.StatusOK, html)
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return Render(c, views.PostLoading(site, uid))
}

func (a *App) handleSitemap(c echo.Context) error {
	uids, err := a.Repo.StaticPaths(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, uids)
}

func (a *App) handleFeed(c echo.Context) error {
	page, err := a.Repo.HomePage(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, page.Results)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\nSitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	he, ok := err.(*echo.HTTPError)
	if ok {
		code = he.Code
	}
	if errors.Is(err, ErrNotFound) {
		code = http.StatusNotFound
	}
	if code >= 500 {
		var malformed *MalformedDocumentError
		if errors.As(err, &malformed) {
			c.Logger().Errorf("content error on document %s: %v", malformed.DocumentID, err)
		} else {
			c.Logger().Errorf("server error: %v", err)
		}
	}

	site := a.site()
	retryable := code == http.StatusTooManyRequests || code >= 500
	partial := c.QueryParam("partial") == "post"
	switch {
	case code == http.StatusNotFound && partial:
		_ = RenderStatus(c, code, views.NotFoundPartial(site))
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, views.NotFound(site))
	case partial && code == http.StatusTooManyRequests:
		_ = RenderStatus(c, code, views.TooManyRequestsPartial(site, renderHref(c.Param("uid"))))
	case partial && retryable:
		_ = RenderStatus(c, code, views.ServerErrorPartial(site, renderHref(c.Param("uid"))))
	case c.Path() == "/posts/more" && retryable:
		// keep a retry control with the same cursor in place of the old one
		control := views.LoadMoreError(site, c.QueryParam("cursor"))
		if c.Request().Header.Get(fragmentHeader) == "true" {
			_ = RenderStatus(c, code, views.MorePosts(nil, control))
			return
		}
		_ = RenderStatus(c, code, views.MorePostsPage(site, nil, control))
	case code >= 500:
		_ = RenderStatus(c, code, views.ServerError(site))
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}

// renderHref links to the synchronous render of a post.
func renderHref(uid string) string {
	return views.PostHref(uid) + "?render=1"
}
