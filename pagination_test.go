package spacetraveling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher answers NextPage from a fixed script and can block until
// released, to observe in-flight behavior.
type scriptedFetcher struct {
	mu      sync.Mutex
	pages   map[string]PostsPagination
	errs    []error
	calls   int
	gate    chan struct{}
	entered chan struct{}
}

func (s *scriptedFetcher) NextPage(ctx context.Context, cursor string) (PostsPagination, error) {
	s.mu.Lock()
	s.calls++
	var err error
	if len(s.errs) > 0 {
		err, s.errs = s.errs[0], s.errs[1:]
	}
	gate, entered := s.gate, s.entered
	s.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return PostsPagination{}, err
	}
	return s.pages[cursor], nil
}

func post(uid string) Post {
	return Post{UID: uid, Data: PostData{Title: uid, Author: "a"}}
}

func uids(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.UID
	}
	return out
}

func TestApplyLoadMoreDoesNotMutate(t *testing.T) {
	current := PostsPagination{Results: make([]Post, 2, 8), NextPage: "X"}
	current.Results[0], current.Results[1] = post("a"), post("b")
	fetched := PostsPagination{Results: []Post{post("c")}}

	next := ApplyLoadMore(current, fetched)

	assert.Equal(t, []string{"a", "b", "c"}, uids(next.Results))
	assert.Empty(t, next.NextPage)
	assert.Equal(t, "X", current.NextPage)
	assert.Len(t, current.Results, 2)

	// the spare capacity of current must not be shared with next
	next.Results[0] = post("z")
	assert.Equal(t, "a", current.Results[0].UID)
}

func TestApplyLoadMoreKeepsDuplicates(t *testing.T) {
	state := PostsPagination{Results: []Post{post("a")}, NextPage: "1"}
	pages := [][]Post{{post("b"), post("a")}, {post("b")}, {post("c")}}
	for i, p := range pages {
		next := "more"
		if i == len(pages)-1 {
			next = ""
		}
		state = ApplyLoadMore(state, PostsPagination{Results: p, NextPage: next})
	}
	assert.Equal(t, []string{"a", "b", "a", "b", "c"}, uids(state.Results))
	assert.False(t, state.HasMore())
}

func TestListingScenario(t *testing.T) {
	fetcher := &scriptedFetcher{pages: map[string]PostsPagination{
		"X": {Results: []Post{post("third")}},
	}}
	initial := PostsPagination{Results: []Post{post("first"), post("second")}, NextPage: "X"}
	l := NewListing(initial, fetcher, LoadMorePolicy{}, nil)
	require.True(t, l.State().HasMore())

	outcome, err := l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadSucceeded, outcome)

	state := l.State()
	assert.Equal(t, []string{"first", "second", "third"}, uids(state.Results))
	assert.False(t, state.HasMore())

	outcome, err = l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadExhausted, outcome)
	assert.Equal(t, 1, fetcher.calls)
}

func TestListingSurfacePolicyKeepsState(t *testing.T) {
	boom := errors.New("network down")
	fetcher := &scriptedFetcher{
		pages: map[string]PostsPagination{"X": {Results: []Post{post("c")}}},
		errs:  []error{boom},
	}
	initial := PostsPagination{Results: []Post{post("a"), post("b")}, NextPage: "X"}
	l := NewListing(initial, fetcher, LoadMorePolicy{Mode: FailSurface}, nil)

	outcome, err := l.LoadMore(context.Background())
	assert.Equal(t, LoadFailed, outcome)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, l.Err(), boom)
	assert.Equal(t, initial, l.State())

	// retry affordance: the same cursor succeeds on the next attempt
	outcome, err = l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadSucceeded, outcome)
	assert.NoError(t, l.Err())
	assert.Equal(t, []string{"a", "b", "c"}, uids(l.State().Results))
}

func TestListingSilentPolicyIsNoop(t *testing.T) {
	fetcher := &scriptedFetcher{errs: []error{errors.New("boom")}}
	initial := PostsPagination{Results: []Post{post("a")}, NextPage: "X"}
	l := NewListing(initial, fetcher, LoadMorePolicy{Mode: FailSilent}, nil)

	outcome, err := l.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, LoadFailed, outcome)
	assert.NoError(t, l.Err())
	assert.Equal(t, initial, l.State())
}

func TestListingRetryPolicy(t *testing.T) {
	fetcher := &scriptedFetcher{
		pages: map[string]PostsPagination{"X": {Results: []Post{post("b")}}},
		errs:  []error{errors.New("flaky"), errors.New("flaky")},
	}
	l := NewListing(PostsPagination{NextPage: "X"}, fetcher,
		LoadMorePolicy{Mode: FailRetry, Retries: 2, Backoff: time.Millisecond}, nil)

	outcome, err := l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadSucceeded, outcome)
	assert.Equal(t, 3, fetcher.calls)
}

func TestListingRetryStopsWhenContextDone(t *testing.T) {
	fetcher := &scriptedFetcher{errs: []error{errors.New("flaky"), errors.New("flaky")}}
	l := NewListing(PostsPagination{NextPage: "X"}, fetcher,
		LoadMorePolicy{Mode: FailRetry, Retries: 2, Backoff: time.Hour}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	outcome, err := l.LoadMore(ctx)
	assert.Equal(t, LoadFailed, outcome)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, fetcher.calls)
	assert.False(t, l.InFlight())
}

func TestListingRetryGivesUpOnMalformed(t *testing.T) {
	malformed := &MalformedDocumentError{UID: "x", Field: "title"}
	fetcher := &scriptedFetcher{errs: []error{malformed}}
	l := NewListing(PostsPagination{NextPage: "X"}, fetcher,
		LoadMorePolicy{Mode: FailRetry, Retries: 5, Backoff: time.Millisecond}, nil)

	outcome, err := l.LoadMore(context.Background())
	assert.Equal(t, LoadFailed, outcome)
	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.Equal(t, 1, fetcher.calls)
}

func TestListingIgnoresOverlappingLoadMore(t *testing.T) {
	fetcher := &scriptedFetcher{
		pages:   map[string]PostsPagination{"X": {Results: []Post{post("c")}, NextPage: "Y"}},
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	l := NewListing(PostsPagination{Results: []Post{post("a")}, NextPage: "X"}, fetcher, LoadMorePolicy{}, nil)

	done := make(chan LoadOutcome)
	go func() {
		outcome, _ := l.LoadMore(context.Background())
		done <- outcome
	}()
	<-fetcher.entered
	assert.True(t, l.InFlight())

	outcome, err := l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadInFlight, outcome)

	close(fetcher.gate)
	assert.Equal(t, LoadSucceeded, <-done)
	assert.False(t, l.InFlight())
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, []string{"a", "c"}, uids(l.State().Results))
	assert.Equal(t, "Y", l.State().NextPage)
}

func TestParseFailureMode(t *testing.T) {
	tests := map[string]FailureMode{
		"":        FailSurface,
		"surface": FailSurface,
		"SILENT":  FailSilent,
		" retry ": FailRetry,
	}
	for in, want := range tests {
		got, err := ParseFailureMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		assert.NotEmpty(t, got.String())
	}
	_, err := ParseFailureMode("banner")
	assert.Error(t, err)
}
