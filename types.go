package spacetraveling

import (
	"time"

	"github.com/marcelafreire/desafio-spacetraveling/richtext"
)

// Post is a listing entry mapped from a "posts" document.
type Post struct {
	UID                  string
	FirstPublicationDate *time.Time
	Data                 PostData
}

// PostData holds the fields the listing renders.
type PostData struct {
	Title    string
	Subtitle string
	Author   string
}

// PostContent is a full article mapped from a "post" document.
type PostContent struct {
	UID                  string
	FirstPublicationDate *time.Time
	Data                 PostContentData
}

// PostContentData holds the fields the detail page renders. Content order is
// render order.
type PostContentData struct {
	Title    string
	Subtitle string
	Author   string
	Banner   Banner
	Content  []Section
}

// Banner is the article's header image.
type Banner struct {
	URL string
}

// Section is one heading plus its rich text body.
type Section struct {
	Heading string
	Body    richtext.RichText
}

// PostsPagination is the listing state: the posts accumulated so far and the
// cursor of the next page. An empty NextPage means there are no more pages.
type PostsPagination struct {
	Results  []Post
	NextPage string
}

// HasMore reports whether a load-more control should be offered.
func (p PostsPagination) HasMore() bool {
	return p.NextPage != ""
}

// Article is a mapped post together with its derived reading time.
type Article struct {
	Post           PostContent
	ReadingMinutes int
}
