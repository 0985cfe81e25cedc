package spacetraveling

import (
	"context"
	"fmt"
	"net/url"

	"github.com/marcelafreire/desafio-spacetraveling/prismic"
)

// Document types queried by the listing and detail flows.
const (
	ListingType = "posts"
	PostType    = "post"
)

const (
	defaultPageSize    = 2
	staticPathPageSize = 100
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = prismic.ErrNotFound

// ContentClient is the part of *prismic.Client the page flows need.
type ContentClient interface {
	Query(ctx context.Context, q prismic.Query) (*prismic.Response, error)
	QueryAll(ctx context.Context, q prismic.Query) ([]prismic.Document, error)
	FetchPage(ctx context.Context, pageURL string) (*prismic.Response, error)
	GetByUID(ctx context.Context, docType, uid string) (*prismic.Document, error)
}

// Repository runs the listing and detail flows against the content client:
// fetch, map, and derive.
type Repository struct {
	client         ContentClient
	pageSize       int
	wordsPerMinute int
}

// NewRepository returns a Repository that pages the listing by pageSize.
func NewRepository(client ContentClient, pageSize int) *Repository {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Repository{
		client:         client,
		pageSize:       pageSize,
		wordsPerMinute: DefaultWordsPerMinute,
	}
}

// HomePage fetches the first listing page, most recently published first.
func (r *Repository) HomePage(ctx context.Context) (PostsPagination, error) {
	resp, err := r.client.Query(ctx, prismic.Query{
		Predicates: []string{prismic.TypeIs(ListingType)},
		PageSize:   r.pageSize,
		Orderings:  prismic.OrderBy("document.last_publication_date desc"),
	})
	if err != nil {
		return PostsPagination{}, fmt.Errorf("query posts: %w", err)
	}
	return toPagination(resp)
}

// NextPage fetches and maps the listing page behind cursor.
func (r *Repository) NextPage(ctx context.Context, cursor string) (PostsPagination, error) {
	resp, err := r.client.FetchPage(ctx, cursor)
	if err != nil {
		return PostsPagination{}, fmt.Errorf("fetch next page: %w", err)
	}
	return toPagination(resp)
}

// Article fetches one post by uid and computes its reading time.
func (r *Repository) Article(ctx context.Context, uid string) (Article, error) {
	doc, err := r.client.GetByUID(ctx, PostType, uid)
	if err != nil {
		return Article{}, fmt.Errorf("get post %q: %w", uid, err)
	}
	post, err := MapPostContent(*doc)
	if err != nil {
		return Article{}, err
	}
	return Article{
		Post:           post,
		ReadingMinutes: EstimateReadingMinutes(post.Data.Content, r.wordsPerMinute),
	}, nil
}

// StaticPaths lists the uid of every post, for pre-rendering.
func (r *Repository) StaticPaths(ctx context.Context) ([]string, error) {
	docs, err := r.client.QueryAll(ctx, prismic.Query{
		Predicates: []string{prismic.TypeIs(PostType)},
		PageSize:   staticPathPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate posts: %w", err)
	}
	uids := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.UID != "" {
			uids = append(uids, d.UID)
		}
	}
	return uids, nil
}

// PostPath is the detail route for uid.
func PostPath(uid string) string {
	return "/post/" + url.PathEscape(uid)
}

func toPagination(resp *prismic.Response) (PostsPagination, error) {
	posts, err := MapPosts(resp.Results)
	if err != nil {
		return PostsPagination{}, err
	}
	return PostsPagination{Results: posts, NextPage: resp.NextPage}, nil
}
