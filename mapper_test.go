package spacetraveling

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelafreire/desafio-spacetraveling/prismic"
	"github.com/marcelafreire/desafio-spacetraveling/richtext"
)

func TestMapPost(t *testing.T) {
	post, err := MapPost(listingDoc("hooks", "Como utilizar Hooks"))
	require.NoError(t, err)

	want := time.Date(2021, 3, 25, 19, 25, 28, 0, time.UTC)
	require.NotNil(t, post.FirstPublicationDate)
	assert.True(t, post.FirstPublicationDate.Equal(want))
	assert.Equal(t, "hooks", post.UID)
	assert.Equal(t, PostData{
		Title:    "Como utilizar Hooks",
		Subtitle: "Subtitle of Como utilizar Hooks",
		Author:   "Joseph Oliveira",
	}, post.Data)
}

func TestMapPostIsIdempotent(t *testing.T) {
	doc := listingDoc("hooks", "Hooks")
	a, err := MapPost(doc)
	require.NoError(t, err)
	b, err := MapPost(doc)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c1, err := MapPostContent(articleDoc("hooks"))
	require.NoError(t, err)
	c2, err := MapPostContent(articleDoc("hooks"))
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestMapPostOptionalFields(t *testing.T) {
	doc := listingDoc("x", "Title")
	doc.FirstPublicationDate = nil
	delete(doc.Data, "subtitle")

	post, err := MapPost(doc)
	require.NoError(t, err)
	assert.Nil(t, post.FirstPublicationDate)
	assert.Empty(t, post.Data.Subtitle)
}

func TestMapPostRequiredFields(t *testing.T) {
	for _, field := range []string{"title", "author"} {
		t.Run(field, func(t *testing.T) {
			doc := listingDoc("x", "Title")
			delete(doc.Data, field)
			_, err := MapPost(doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDocument))

			var mde *MalformedDocumentError
			require.True(t, errors.As(err, &mde))
			assert.Equal(t, field, mde.Field)
			assert.Equal(t, "x", mde.UID)
			assert.Contains(t, err.Error(), field)
		})
	}

	doc := listingDoc("x", "Title")
	doc.Data["author"] = json.RawMessage(`"   "`)
	_, err := MapPost(doc)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestMapPostBadDate(t *testing.T) {
	doc := listingDoc("x", "Title")
	bad := "yesterday"
	doc.FirstPublicationDate = &bad
	_, err := MapPost(doc)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestMapPostRFC3339Date(t *testing.T) {
	doc := listingDoc("x", "Title")
	d := "2021-04-01T10:00:00Z"
	doc.FirstPublicationDate = &d
	post, err := MapPost(doc)
	require.NoError(t, err)
	assert.Equal(t, 2021, post.FirstPublicationDate.Year())
}

func TestMapPostRichTextTitle(t *testing.T) {
	doc := listingDoc("x", "unused")
	doc.Data["title"] = json.RawMessage(`[{"type":"heading1","text":"Rich title","spans":[]}]`)
	post, err := MapPost(doc)
	require.NoError(t, err)
	assert.Equal(t, "Rich title", post.Data.Title)
}

func TestMapPostContent(t *testing.T) {
	post, err := MapPostContent(articleDoc("hooks"))
	require.NoError(t, err)

	assert.Equal(t, "hooks", post.UID)
	assert.Equal(t, "https://images.example.com/banner.png", post.Data.Banner.URL)
	require.Len(t, post.Data.Content, 2)
	assert.Equal(t, "Intro", post.Data.Content[0].Heading)
	assert.Equal(t, "Second part", post.Data.Content[1].Heading)
	assert.Equal(t, richtext.RichText{{Type: richtext.Paragraph, Text: "a b c", Spans: []richtext.Span{}}}, post.Data.Content[0].Body)
}

func TestMapPostContentRequiresContent(t *testing.T) {
	doc := articleDoc("hooks")
	delete(doc.Data, "content")
	_, err := MapPostContent(doc)
	var mde *MalformedDocumentError
	require.True(t, errors.As(err, &mde))
	assert.Equal(t, "content", mde.Field)

	doc = articleDoc("hooks")
	doc.Data["content"] = json.RawMessage(`"not sections"`)
	_, err = MapPostContent(doc)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestMapPostContentOptionalBanner(t *testing.T) {
	doc := articleDoc("hooks")
	delete(doc.Data, "banner")
	post, err := MapPostContent(doc)
	require.NoError(t, err)
	assert.Empty(t, post.Data.Banner.URL)
}

func TestMapPostsStopsAtMalformed(t *testing.T) {
	bad := listingDoc("bad", "Bad")
	delete(bad.Data, "title")
	_, err := MapPosts([]prismic.Document{listingDoc("ok", "Ok"), bad})
	assert.ErrorIs(t, err, ErrMalformedDocument)
}
