package spacetraveling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/marcelafreire/desafio-spacetraveling/prismic"
)

// ApplyLoadMore returns the state after a successful load-more: the fetched
// results appended in arrival order, without dedup, and the fetched cursor.
// current is never modified.
func ApplyLoadMore(current, fetched PostsPagination) PostsPagination {
	results := make([]Post, 0, len(current.Results)+len(fetched.Results))
	results = append(results, current.Results...)
	results = append(results, fetched.Results...)
	return PostsPagination{Results: results, NextPage: fetched.NextPage}
}

// PageFetcher fetches and maps the listing page behind a cursor.
type PageFetcher interface {
	NextPage(ctx context.Context, cursor string) (PostsPagination, error)
}

// LoadOutcome is the observable result of a load-more command.
type LoadOutcome int

const (
	LoadSucceeded LoadOutcome = iota
	LoadFailed
	LoadInFlight
	LoadExhausted
)

func (o LoadOutcome) String() string {
	switch o {
	case LoadSucceeded:
		return "succeeded"
	case LoadFailed:
		return "failed"
	case LoadInFlight:
		return "in-flight"
	case LoadExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("LoadOutcome(%d)", int(o))
	}
}

// FailureMode selects what a failed load-more does.
type FailureMode int

const (
	// FailSurface returns the error and leaves state untouched so the UI can
	// offer a retry.
	FailSurface FailureMode = iota
	// FailSilent logs the error and reports no error; the click is a no-op.
	FailSilent
	// FailRetry retries transient failures before surfacing.
	FailRetry
)

func (m FailureMode) String() string {
	switch m {
	case FailSurface:
		return "surface"
	case FailSilent:
		return "silent"
	case FailRetry:
		return "retry"
	default:
		return fmt.Sprintf("FailureMode(%d)", int(m))
	}
}

// ParseFailureMode parses "surface", "silent" or "retry".
func ParseFailureMode(s string) (FailureMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "surface":
		return FailSurface, nil
	case "silent":
		return FailSilent, nil
	case "retry":
		return FailRetry, nil
	default:
		return FailSurface, fmt.Errorf("unknown load-more policy %q", s)
	}
}

// LoadMorePolicy configures failure handling for load-more.
type LoadMorePolicy struct {
	Mode    FailureMode
	Retries int           // extra attempts in FailRetry mode
	Backoff time.Duration // initial wait, growing exponentially between retries
}

// Surfaces reports whether failures reach the caller.
func (p LoadMorePolicy) Surfaces() bool {
	return p.Mode != FailSilent
}

// Listing is the listing page session: it owns the pagination state and
// serializes load-more commands. Overlapping calls are ignored.
type Listing struct {
	fetcher PageFetcher
	policy  LoadMorePolicy
	logger  *slog.Logger

	mu       sync.Mutex
	state    PostsPagination
	inFlight bool
	lastErr  error
}

// NewListing starts a session from the initial server-side page.
func NewListing(initial PostsPagination, fetcher PageFetcher, policy LoadMorePolicy, logger *slog.Logger) *Listing {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Listing{
		fetcher: fetcher,
		policy:  policy,
		logger:  logger,
		state:   initial,
	}
}

// State returns the current pagination state.
func (l *Listing) State() PostsPagination {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the last surfaced load-more failure, or nil after a success.
func (l *Listing) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// InFlight reports whether a load-more is running.
func (l *Listing) InFlight() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

// LoadMore fetches the page behind the current cursor and appends it.
// A failed fetch never changes the state; whether the error is returned
// depends on the policy.
func (l *Listing) LoadMore(ctx context.Context) (LoadOutcome, error) {
	l.mu.Lock()
	if l.inFlight {
		l.mu.Unlock()
		return LoadInFlight, nil
	}
	if !l.state.HasMore() {
		l.mu.Unlock()
		return LoadExhausted, nil
	}
	cursor := l.state.NextPage
	l.inFlight = true
	l.mu.Unlock()

	fetched, err := l.fetch(ctx, cursor)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight = false
	if err != nil {
		if !l.policy.Surfaces() {
			l.logger.WarnContext(ctx, "load more failed", "cursor", cursor, "error", err)
			return LoadFailed, nil
		}
		l.lastErr = err
		return LoadFailed, err
	}
	l.state = ApplyLoadMore(l.state, fetched)
	l.lastErr = nil
	return LoadSucceeded, nil
}

func (l *Listing) fetch(ctx context.Context, cursor string) (PostsPagination, error) {
	retries := 0
	if l.policy.Mode == FailRetry && l.policy.Retries > 0 {
		retries = l.policy.Retries
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = l.policy.Backoff
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)

	attempt := 0
	return backoff.RetryNotifyWithData(func() (PostsPagination, error) {
		attempt++
		page, err := l.fetcher.NextPage(ctx, cursor)
		if err != nil && !retryable(err) {
			return PostsPagination{}, backoff.Permanent(err)
		}
		return page, err
	}, b, func(err error, wait time.Duration) {
		l.logger.DebugContext(ctx, "retrying load more", "attempt", attempt+1, "wait", wait, "error", err)
	})
}

// retryable excludes failures that a second attempt cannot fix.
func retryable(err error) bool {
	switch {
	case errors.Is(err, ErrMalformedDocument),
		errors.Is(err, prismic.ErrForeignCursor),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	var apiErr *prismic.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}
	return true
}
