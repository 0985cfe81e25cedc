// Package prismic is a small client for a Prismic-compatible REST v2 content
// repository: master ref lookup, predicate queries, cursor pages and
// get-by-uid.
package prismic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when a by-uid lookup matches no document.
	ErrNotFound = errors.New("prismic: document not found")
	// ErrForeignCursor is returned when a next_page cursor does not point
	// at the configured repository.
	ErrForeignCursor = errors.New("prismic: cursor does not belong to this repository")
	// ErrNoMasterRef is returned when the repository advertises no master ref.
	ErrNoMasterRef = errors.New("prismic: repository has no master ref")
)

// APIError is a non-2xx answer from the repository.
type APIError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("prismic: %s returned %d: %s", redact(e.URL), e.StatusCode, e.Message)
	}
	return fmt.Sprintf("prismic: %s returned %d", redact(e.URL), e.StatusCode)
}

const (
	defaultTimeout = 10 * time.Second
	defaultRefTTL  = 10 * time.Second
	maxErrorBody   = 1 << 10
)

// Client talks to one content repository. It is safe for concurrent use.
type Client struct {
	endpoint *url.URL
	token    string
	http     *http.Client
	refTTL   time.Duration

	mu         sync.Mutex
	ref        string
	refFetched time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithAccessToken sets the access token sent with every request.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithRefTTL controls how long the master ref is reused before it is looked up again.
func WithRefTTL(d time.Duration) Option {
	return func(c *Client) {
		c.refTTL = d
	}
}

// New returns a Client for the API endpoint, e.g.
// "https://my-repo.cdn.prismic.io/api/v2".
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(endpoint), "/"))
	if err != nil {
		return nil, fmt.Errorf("prismic: parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("prismic: endpoint %q must be an absolute http(s) URL", endpoint)
	}
	c := &Client{
		endpoint: u,
		http:     &http.Client{Timeout: defaultTimeout},
		refTTL:   defaultRefTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the normalized API endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// MasterRef returns the current master ref, cached for the ref TTL.
func (c *Client) MasterRef(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.ref != "" && time.Since(c.refFetched) < c.refTTL {
		ref := c.ref
		c.mu.Unlock()
		return ref, nil
	}
	c.mu.Unlock()

	u := *c.endpoint
	u.RawQuery = c.withToken(url.Values{}).Encode()
	var info apiInfo
	if err := c.getJSON(ctx, u.String(), &info); err != nil {
		return "", fmt.Errorf("prismic: lookup refs: %w", err)
	}
	for _, r := range info.Refs {
		if r.IsMasterRef {
			c.mu.Lock()
			c.ref = r.Ref
			c.refFetched = time.Now()
			c.mu.Unlock()
			return r.Ref, nil
		}
	}
	return "", ErrNoMasterRef
}

// Query runs a predicate search against the master ref.
func (c *Client) Query(ctx context.Context, q Query) (*Response, error) {
	ref, err := c.MasterRef(ctx)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("ref", ref)
	if len(q.Predicates) > 0 {
		params.Set("q", q.encode())
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Orderings != "" {
		params.Set("orderings", q.Orderings)
	}
	if q.Lang != "" {
		params.Set("lang", q.Lang)
	}
	u := c.endpoint.JoinPath("documents", "search")
	u.RawQuery = c.withToken(params).Encode()

	var resp Response
	if err := c.getJSON(ctx, u.String(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchPage follows a next_page cursor returned by an earlier query.
// Cursors pointing anywhere but this repository's search endpoint are
// rejected with ErrForeignCursor.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*Response, error) {
	u, err := c.checkCursor(pageURL)
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := c.getJSON(ctx, u.String(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueryAll runs q and follows next_page until the results are exhausted.
func (c *Client) QueryAll(ctx context.Context, q Query) ([]Document, error) {
	resp, err := c.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	docs := append([]Document(nil), resp.Results...)
	for next := resp.NextPage; next != ""; next = resp.NextPage {
		resp, err = c.FetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		docs = append(docs, resp.Results...)
	}
	return docs, nil
}

// GetByUID returns the document of docType with the given uid.
func (c *Client) GetByUID(ctx context.Context, docType, uid string) (*Document, error) {
	resp, err := c.Query(ctx, Query{
		Predicates: []string{UIDIs(docType, uid)},
		PageSize:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, docType, uid)
	}
	doc := resp.Results[0]
	return &doc, nil
}

func (c *Client) checkCursor(pageURL string) (*url.URL, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForeignCursor, err)
	}
	if !strings.EqualFold(u.Host, c.endpoint.Host) || u.Scheme != c.endpoint.Scheme {
		return nil, ErrForeignCursor
	}
	if u.Path != c.endpoint.Path+"/documents/search" {
		return nil, ErrForeignCursor
	}
	if c.token != "" && u.Query().Get("access_token") == "" {
		u.RawQuery = c.withToken(u.Query()).Encode()
	}
	return u, nil
}

func (c *Client) withToken(v url.Values) url.Values {
	if c.token != "" {
		v.Set("access_token", c.token)
	}
	return v
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("prismic: request %s: %w", redact(u), err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &APIError{StatusCode: res.StatusCode, URL: u, Message: errorMessage(body)}
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("prismic: decode %s: %w", redact(u), err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// redact strips the access token from URLs that end up in errors and logs.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("access_token") {
		q.Set("access_token", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
