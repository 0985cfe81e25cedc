package spacetraveling

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcelafreire/desafio-spacetraveling/prismic"
	"github.com/marcelafreire/desafio-spacetraveling/richtext"
)

// ErrMalformedDocument matches every *MalformedDocumentError.
var ErrMalformedDocument = errors.New("malformed document")

// MalformedDocumentError reports a document that lacks a required field or
// carries a field that cannot be decoded.
type MalformedDocumentError struct {
	DocumentID string
	UID        string
	Field      string
	Err        error
}

func (e *MalformedDocumentError) Error() string {
	id := e.UID
	if id == "" {
		id = e.DocumentID
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed document %q: field %q: %v", id, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed document %q: missing required field %q", id, e.Field)
}

func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// Accepted first_publication_date layouts. The repository omits the colon in
// the zone offset.
var publicationLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

// MapPost converts a "posts" document into a Post. Title and author are
// required; subtitle and publication date are optional.
func MapPost(doc prismic.Document) (Post, error) {
	m := mapping{doc: doc}
	post := Post{
		UID:                  doc.UID,
		FirstPublicationDate: m.date(),
		Data: PostData{
			Title:    m.text("title", true),
			Subtitle: m.text("subtitle", false),
			Author:   m.text("author", true),
		},
	}
	if m.err != nil {
		return Post{}, m.err
	}
	return post, nil
}

// MapPosts maps every document, stopping at the first malformed one.
func MapPosts(docs []prismic.Document) ([]Post, error) {
	posts := make([]Post, 0, len(docs))
	for _, doc := range docs {
		p, err := MapPost(doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// MapPostContent converts a "post" document into a PostContent. Title,
// author and content are required.
func MapPostContent(doc prismic.Document) (PostContent, error) {
	m := mapping{doc: doc}
	post := PostContent{
		UID:                  doc.UID,
		FirstPublicationDate: m.date(),
		Data: PostContentData{
			Title:    m.text("title", true),
			Subtitle: m.text("subtitle", false),
			Author:   m.text("author", true),
			Banner:   m.banner(),
			Content:  m.sections(),
		},
	}
	if m.err != nil {
		return PostContent{}, m.err
	}
	return post, nil
}

// mapping accumulates the first decoding failure so the field list above
// reads top to bottom.
type mapping struct {
	doc prismic.Document
	err error
}

func (m *mapping) fail(field string, err error) {
	if m.err == nil {
		m.err = &MalformedDocumentError{DocumentID: m.doc.ID, UID: m.doc.UID, Field: field, Err: err}
	}
}

// text decodes a key text field. Rich text titles are flattened to plain text.
func (m *mapping) text(field string, required bool) string {
	raw, ok := m.doc.Data[field]
	if !ok || isNull(raw) {
		if required {
			m.fail(field, nil)
		}
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var rt richtext.RichText
		if rtErr := json.Unmarshal(raw, &rt); rtErr != nil {
			m.fail(field, err)
			return ""
		}
		s = richtext.AsText(rt)
	}
	if required && strings.TrimSpace(s) == "" {
		m.fail(field, nil)
	}
	return s
}

func (m *mapping) date() *time.Time {
	raw := m.doc.FirstPublicationDate
	if raw == nil || *raw == "" {
		return nil
	}
	for _, layout := range publicationLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t
		}
	}
	m.fail("first_publication_date", fmt.Errorf("unrecognized time %q", *raw))
	return nil
}

func (m *mapping) banner() Banner {
	var b struct {
		URL string `json:"url"`
	}
	if _, err := m.doc.Field("banner", &b); err != nil {
		m.fail("banner", err)
	}
	return Banner{URL: b.URL}
}

func (m *mapping) sections() []Section {
	var raw []struct {
		Heading *string           `json:"heading"`
		Body    richtext.RichText `json:"body"`
	}
	ok, err := m.doc.Field("content", &raw)
	if err != nil {
		m.fail("content", err)
		return nil
	}
	if !ok {
		m.fail("content", nil)
		return nil
	}
	sections := make([]Section, 0, len(raw))
	for _, r := range raw {
		heading := ""
		if r.Heading != nil {
			heading = *r.Heading
		}
		sections = append(sections, Section{Heading: heading, Body: r.Body})
	}
	return sections
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
