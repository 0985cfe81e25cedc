package spacetraveling

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/marcelafreire/desafio-spacetraveling/prismic"
)

// fakeClient is an in-memory ContentClient. Pages are keyed by cursor; the
// empty cursor is the first page.
type fakeClient struct {
	mu       sync.Mutex
	pages    map[string]*prismic.Response
	posts    map[string]prismic.Document
	err      error
	queries  []prismic.Query
	fetched  []string
	getCalls int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages: make(map[string]*prismic.Response),
		posts: make(map[string]prismic.Document),
	}
}

func (f *fakeClient) Query(ctx context.Context, q prismic.Query) (*prismic.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	resp, ok := f.pages[""]
	if !ok {
		return &prismic.Response{}, nil
	}
	return resp, nil
}

func (f *fakeClient) QueryAll(ctx context.Context, q prismic.Query) ([]prismic.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	var docs []prismic.Document
	for _, d := range f.posts {
		docs = append(docs, d)
	}
	return docs, nil
}

func (f *fakeClient) FetchPage(ctx context.Context, pageURL string) (*prismic.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, pageURL)
	if f.err != nil {
		return nil, f.err
	}
	resp, ok := f.pages[pageURL]
	if !ok {
		return nil, &prismic.APIError{StatusCode: 404, URL: pageURL}
	}
	return resp, nil
}

func (f *fakeClient) GetByUID(ctx context.Context, docType, uid string) (*prismic.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.posts[uid]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", prismic.ErrNotFound, docType, uid)
	}
	return &doc, nil
}

func (f *fakeClient) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeClient) setPost(doc prismic.Document) {
	f.mu.Lock()
	f.posts[doc.UID] = doc
	f.mu.Unlock()
}

func listingDoc(uid, title string) prismic.Document {
	date := "2021-03-25T19:25:28+0000"
	return prismic.Document{
		ID:                   "id-" + uid,
		UID:                  uid,
		Type:                 ListingType,
		FirstPublicationDate: &date,
		Data: map[string]json.RawMessage{
			"title":    mustJSON(title),
			"subtitle": mustJSON("Subtitle of " + title),
			"author":   mustJSON("Joseph Oliveira"),
			"extra":    mustJSON("dropped"),
		},
	}
}

func articleDoc(uid string) prismic.Document {
	date := "2021-03-25T19:25:28+0000"
	return prismic.Document{
		ID:                   "id-" + uid,
		UID:                  uid,
		Type:                 PostType,
		FirstPublicationDate: &date,
		Data: map[string]json.RawMessage{
			"title":    mustJSON("Como utilizar Hooks"),
			"subtitle": mustJSON("Pensando em sincronização"),
			"author":   mustJSON("Joseph Oliveira"),
			"banner":   json.RawMessage(`{"url":"https://images.example.com/banner.png","alt":null}`),
			"content": json.RawMessage(`[
				{"heading":"Intro","body":[{"type":"paragraph","text":"a b c","spans":[]}]},
				{"heading":"Second part","body":[{"type":"paragraph","text":"<script>x</script> d","spans":[{"start":0,"end":4,"type":"strong"}]}]}
			]`),
		},
	}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
