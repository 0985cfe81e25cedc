package richtext

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the allow-list applied to every rendered fragment. Rich text
// comes from an external system, so nothing outside this list survives.
var policy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "pre", "strong", "em",
		"ul", "ol", "li",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^noopener noreferrer$`)).OnElements("a")

	p.AllowAttrs("src", "alt", "loading").OnElements("img")
	p.AllowAttrs("width", "height").Matching(bluemonday.Integer).OnElements("img")

	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)).OnElements("p", "span")

	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return p
})

// Sanitize filters an HTML fragment through the rich text allow-list.
func Sanitize(fragment string) string {
	return policy().Sanitize(fragment)
}
