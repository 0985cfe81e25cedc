package prismic

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a content record as returned by the repository's search API.
// Only Data is kept raw; callers decode the fields they consume.
type Document struct {
	ID                   string                     `json:"id"`
	UID                  string                     `json:"uid"`
	Type                 string                     `json:"type"`
	Href                 string                     `json:"href"`
	Tags                 []string                   `json:"tags"`
	FirstPublicationDate *string                    `json:"first_publication_date"`
	LastPublicationDate  *string                    `json:"last_publication_date"`
	Lang                 string                     `json:"lang"`
	Data                 map[string]json.RawMessage `json:"data"`
}

// Field decodes the data field name into v. It reports false when the field
// is absent or null, leaving v untouched.
func (d Document) Field(name string, v any) (bool, error) {
	raw, ok := d.Data[name]
	if !ok || len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("prismic: decode field %q of %s: %w", name, d.ID, err)
	}
	return true, nil
}

// Response is one page of search results.
type Response struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	ResultsSize      int        `json:"results_size"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         string     `json:"next_page"`
	PrevPage         string     `json:"prev_page"`
	Results          []Document `json:"results"`
}

// Ref is a content release pointer. The master ref points at published content.
type Ref struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

type apiInfo struct {
	Refs []Ref `json:"refs"`
}
