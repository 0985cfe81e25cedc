package spacetraveling

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// RenderFunc renders the full detail page for uid.
type RenderFunc func(ctx context.Context, uid string) ([]byte, error)

type cachedPage struct {
	html       []byte
	renderedAt time.Time
}

// PageCache keeps rendered detail pages in memory with a freshness window.
// A stale page is served once, to the request that starts its background
// regeneration; later requests wait for the regenerated page. Concurrent
// renders of the same uid are collapsed into one.
type PageCache struct {
	mu      sync.RWMutex
	pages   map[string]cachedPage
	pending map[string]chan struct{}

	render  RenderFunc
	store   *Store
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger

	group singleflight.Group
	wg    sync.WaitGroup
}

// NewPageCache creates a PageCache that renders with render and persists
// pages to store. store may be nil.
func NewPageCache(render RenderFunc, store *Store, ttl time.Duration, logger *slog.Logger) *PageCache {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PageCache{
		pages:   make(map[string]cachedPage),
		pending: make(map[string]chan struct{}),
		render:  render,
		store:   store,
		ttl:     ttl,
		timeout: 10 * time.Second,
		now:     time.Now,
		logger:  logger,
	}
}

// Warm loads persisted snapshots so the freshness window survives restarts.
func (c *PageCache) Warm(ctx context.Context) (int, error) {
	if c.store == nil {
		return 0, nil
	}
	snaps, err := c.store.ListSnapshots(ctx)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	for _, s := range snaps {
		c.pages[s.UID] = cachedPage{html: s.HTML, renderedAt: s.RenderedAt}
	}
	c.mu.Unlock()
	return len(snaps), nil
}

// Has reports whether a rendered page exists for uid, fresh or stale.
func (c *PageCache) Has(uid string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.pages[uid]
	return ok
}

// Get returns the cached page for uid. The first request to find the page
// stale gets the stale copy and schedules a background regeneration. Requests
// arriving while that regeneration runs wait for it and get its result, or the
// stale copy when it failed.
func (c *PageCache) Get(ctx context.Context, uid string) ([]byte, bool) {
	c.mu.Lock()
	page, ok := c.pages[uid]
	if !ok {
		c.mu.Unlock()
		return nil, false
	}
	if c.now().Sub(page.renderedAt) < c.ttl {
		c.mu.Unlock()
		return page.html, true
	}
	done, running := c.pending[uid]
	if !running {
		done = make(chan struct{})
		c.pending[uid] = done
		c.mu.Unlock()
		c.revalidate(ctx, uid, done)
		return page.html, true
	}
	c.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, false
	}
	c.mu.RLock()
	page, ok = c.pages[uid]
	c.mu.RUnlock()
	return page.html, ok
}

// Render renders uid now and caches the result. Concurrent calls for the same
// uid share one render; the render outlives a cancelled caller.
func (c *PageCache) Render(ctx context.Context, uid string) ([]byte, error) {
	v, err, _ := c.group.Do(uid, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		html, err := c.render(rctx, uid)
		if err != nil {
			return nil, err
		}
		c.Put(rctx, uid, html)
		return html, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Put stores a rendered page and its snapshot.
func (c *PageCache) Put(ctx context.Context, uid string, html []byte) {
	renderedAt := c.now()
	c.mu.Lock()
	c.pages[uid] = cachedPage{html: html, renderedAt: renderedAt}
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.SaveSnapshot(ctx, Snapshot{UID: uid, HTML: html, RenderedAt: renderedAt}); err != nil {
		c.logger.WarnContext(ctx, "snapshot not saved", "uid", uid, "error", err)
	}
}

// Evict drops the page for uid and its snapshot.
func (c *PageCache) Evict(ctx context.Context, uid string) {
	c.mu.Lock()
	delete(c.pages, uid)
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.DeleteSnapshot(ctx, uid); err != nil {
		c.logger.WarnContext(ctx, "snapshot not deleted", "uid", uid, "error", err)
	}
}

// Wait blocks until background regenerations finish.
func (c *PageCache) Wait() {
	c.wg.Wait()
}

func (c *PageCache) revalidate(ctx context.Context, uid string, done chan struct{}) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			delete(c.pending, uid)
			c.mu.Unlock()
			close(done)
		}()

		ctx := context.WithoutCancel(ctx)
		if _, err := c.Render(ctx, uid); err != nil {
			if errors.Is(err, ErrNotFound) {
				c.logger.InfoContext(ctx, "post removed, evicting page", "uid", uid)
				c.Evict(ctx, uid)
				return
			}
			c.logger.ErrorContext(ctx, "page regeneration failed, serving stale copy", "uid", uid, "error", err)
			return
		}
		c.logger.DebugContext(ctx, "page regenerated", "uid", uid)
	}()
}
