package spacetraveling

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelafreire/desafio-spacetraveling/prismic"
)

func TestRepositoryHomePage(t *testing.T) {
	fc := newFakeClient()
	fc.pages[""] = &prismic.Response{
		Results:  []prismic.Document{listingDoc("a", "A"), listingDoc("b", "B")},
		NextPage: "X",
	}
	repo := NewRepository(fc, 0)

	page, err := repo.HomePage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, uids(page.Results))
	assert.Equal(t, "X", page.NextPage)

	require.Len(t, fc.queries, 1)
	q := fc.queries[0]
	assert.Equal(t, 2, q.PageSize)
	assert.Equal(t, []string{prismic.TypeIs("posts")}, q.Predicates)
	assert.Equal(t, "[document.last_publication_date desc]", q.Orderings)
}

func TestRepositoryLoadMoreScenario(t *testing.T) {
	fc := newFakeClient()
	fc.pages[""] = &prismic.Response{
		Results:  []prismic.Document{listingDoc("a", "A"), listingDoc("b", "B")},
		NextPage: "X",
	}
	fc.pages["X"] = &prismic.Response{Results: []prismic.Document{listingDoc("c", "C")}}
	repo := NewRepository(fc, 2)

	initial, err := repo.HomePage(context.Background())
	require.NoError(t, err)
	l := NewListing(initial, repo, LoadMorePolicy{}, nil)

	outcome, err := l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadSucceeded, outcome)
	assert.Equal(t, []string{"a", "b", "c"}, uids(l.State().Results))
	assert.False(t, l.State().HasMore())
	assert.Equal(t, []string{"X"}, fc.fetched)
}

func TestRepositoryHomePageFailure(t *testing.T) {
	fc := newFakeClient()
	fc.setErr(&prismic.APIError{StatusCode: 503})
	_, err := NewRepository(fc, 2).HomePage(context.Background())
	var apiErr *prismic.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestRepositoryArticle(t *testing.T) {
	fc := newFakeClient()
	fc.setPost(articleDoc("hooks"))
	repo := NewRepository(fc, 2)

	article, err := repo.Article(context.Background(), "hooks")
	require.NoError(t, err)
	assert.Equal(t, "Como utilizar Hooks", article.Post.Data.Title)
	// Intro(1) + "a b c"(3) + "Second part"(2) + "<script>x</script> d"(2)
	assert.Equal(t, 1, article.ReadingMinutes)

	_, err = repo.Article(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryArticleMalformed(t *testing.T) {
	fc := newFakeClient()
	doc := articleDoc("broken")
	delete(doc.Data, "author")
	fc.setPost(doc)

	_, err := NewRepository(fc, 2).Article(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestRepositoryStaticPaths(t *testing.T) {
	fc := newFakeClient()
	fc.setPost(articleDoc("one"))
	fc.setPost(articleDoc("two"))
	noUID := articleDoc("")
	fc.posts["no-uid"] = noUID

	paths, err := NewRepository(fc, 2).StaticPaths(context.Background())
	require.NoError(t, err)
	sort.Strings(paths)
	assert.Equal(t, []string{"one", "two"}, paths)
	assert.Equal(t, []string{prismic.TypeIs("post")}, fc.queries[0].Predicates)
}

func TestPostPath(t *testing.T) {
	assert.Equal(t, "/post/como-utilizar-hooks", PostPath("como-utilizar-hooks"))
	assert.Equal(t, "/post/a%2Fb", PostPath("a/b"))
}
