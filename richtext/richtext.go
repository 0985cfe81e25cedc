// Package richtext decodes structured text from the content repository and
// renders it as plain text or as sanitized HTML.
package richtext

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/a-h/templ"
)

// Block types emitted by the repository.
const (
	Heading1     = "heading1"
	Heading2     = "heading2"
	Heading3     = "heading3"
	Heading4     = "heading4"
	Heading5     = "heading5"
	Heading6     = "heading6"
	Paragraph    = "paragraph"
	Preformatted = "preformatted"
	ListItem     = "list-item"
	OListItem    = "o-list-item"
	Image        = "image"
	Embed        = "embed"
)

// Span types.
const (
	Strong    = "strong"
	Em        = "em"
	Hyperlink = "hyperlink"
	Label     = "label"
)

// RichText is an ordered sequence of blocks.
type RichText []Block

// Block is one paragraph-level element.
type Block struct {
	Type       string      `json:"type"`
	Text       string      `json:"text,omitempty"`
	Spans      []Span      `json:"spans,omitempty"`
	URL        string      `json:"url,omitempty"`
	Alt        string      `json:"alt,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
	Oembed     *Oembed     `json:"oembed,omitempty"`
}

// Dimensions of an image block.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Oembed describes an embed block.
type Oembed struct {
	EmbedURL string `json:"embed_url"`
	Title    string `json:"title"`
	Type     string `json:"type"`
}

// Span marks an inline range of Block.Text. Offsets count UTF-16 code units.
type Span struct {
	Start int       `json:"start"`
	End   int       `json:"end"`
	Type  string    `json:"type"`
	Data  *SpanData `json:"data,omitempty"`
}

// SpanData carries hyperlink and label attributes.
type SpanData struct {
	LinkType string `json:"link_type,omitempty"`
	URL      string `json:"url,omitempty"`
	Target   string `json:"target,omitempty"`
	Label    string `json:"label,omitempty"`
}

// AsText flattens rt into plain text, one block per space-separated chunk.
// Blocks without text (images, embeds) are skipped.
func AsText(rt RichText) string {
	parts := make([]string, 0, len(rt))
	for _, b := range rt {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, " ")
}

// AsHTML renders rt and runs the result through the sanitizer policy.
func AsHTML(rt RichText) string {
	var buf bytes.Buffer
	RenderHTML(&buf, rt)
	return Sanitize(buf.String())
}

// HTML returns a templ.Component that writes the sanitized HTML of rt.
func HTML(rt RichText) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, AsHTML(rt))
		return err
	})
}

// RenderHTML writes the unsanitized HTML representation of rt to buf.
// Consecutive list items are grouped into a single <ul> or <ol>.
func RenderHTML(buf *bytes.Buffer, rt RichText) {
	inList := ""

	flushList := func() {
		if inList != "" {
			buf.WriteString("</" + inList + ">")
			inList = ""
		}
	}
	openList := func(tag string) {
		if inList != tag {
			flushList()
			buf.WriteString("<" + tag + ">")
			inList = tag
		}
	}

	for _, b := range rt {
		switch b.Type {
		case ListItem:
			openList("ul")
			buf.WriteString("<li>" + FormatInline(b.Text, b.Spans) + "</li>")
			continue
		case OListItem:
			openList("ol")
			buf.WriteString("<li>" + FormatInline(b.Text, b.Spans) + "</li>")
			continue
		}
		flushList()

		switch b.Type {
		case Heading1, Heading2, Heading3, Heading4, Heading5, Heading6:
			tag := "h" + strings.TrimPrefix(b.Type, "heading")
			buf.WriteString("<" + tag + ">" + FormatInline(b.Text, b.Spans) + "</" + tag + ">")
		case Preformatted:
			buf.WriteString("<pre>" + html.EscapeString(b.Text) + "</pre>")
		case Image:
			src := safeURL(b.URL)
			if src == "" {
				continue
			}
			buf.WriteString(`<p class="block-img"><img src="` + src + `" alt="` + html.EscapeString(b.Alt) + `"`)
			if b.Dimensions != nil && b.Dimensions.Width > 0 && b.Dimensions.Height > 0 {
				buf.WriteString(` width="` + strconv.Itoa(b.Dimensions.Width) + `" height="` + strconv.Itoa(b.Dimensions.Height) + `"`)
			}
			buf.WriteString(` loading="lazy"/></p>`)
		case Embed:
			if b.Oembed == nil {
				continue
			}
			href := safeURL(b.Oembed.EmbedURL)
			if href == "" {
				continue
			}
			title := b.Oembed.Title
			if title == "" {
				title = b.Oembed.EmbedURL
			}
			buf.WriteString(`<p class="embed"><a href="` + href + `" target="_blank" rel="noopener noreferrer">` + html.EscapeString(title) + `</a></p>`)
		default:
			buf.WriteString("<p>" + FormatInline(b.Text, b.Spans) + "</p>")
		}
	}
	flushList()
}

// FormatInline applies spans to text. Nested spans are emitted as nested
// elements; a span crossing the end of its parent is cut at the parent's end.
func FormatInline(text string, spans []Span) string {
	units := utf16.Encode([]rune(text))
	sorted := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > len(units) {
			s.End = len(units)
		}
		if s.End > s.Start {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})
	return formatRange(units, sorted)
}

func formatRange(units []uint16, spans []Span) string {
	var b strings.Builder
	pos := 0
	for i := 0; i < len(spans); {
		s := spans[i]
		if s.Start < pos {
			s.Start = pos
		}
		if s.End <= s.Start {
			i++
			continue
		}
		b.WriteString(escapeUnits(units[pos:s.Start]))

		j := i + 1
		var children []Span
		for j < len(spans) && spans[j].Start < s.End {
			c := spans[j]
			if c.Start < s.Start {
				c.Start = s.Start
			}
			if c.End > s.End {
				c.End = s.End
			}
			c.Start -= s.Start
			c.End -= s.Start
			if c.End > c.Start {
				children = append(children, c)
			}
			j++
		}
		b.WriteString(wrapSpan(s, formatRange(units[s.Start:s.End], children)))
		pos = s.End
		i = j
	}
	b.WriteString(escapeUnits(units[pos:]))
	return b.String()
}

func wrapSpan(s Span, inner string) string {
	switch s.Type {
	case Strong:
		return "<strong>" + inner + "</strong>"
	case Em:
		return "<em>" + inner + "</em>"
	case Hyperlink:
		if s.Data == nil {
			return inner
		}
		href := safeURL(s.Data.URL)
		if href == "" {
			return inner
		}
		attrs := `href="` + href + `"`
		if s.Data.Target == "_blank" {
			attrs += ` target="_blank" rel="noopener noreferrer"`
		}
		return "<a " + attrs + ">" + inner + "</a>"
	case Label:
		if s.Data == nil || s.Data.Label == "" {
			return inner
		}
		return `<span class="` + html.EscapeString(s.Data.Label) + `">` + inner + "</span>"
	default:
		return inner
	}
}

func escapeUnits(units []uint16) string {
	s := html.EscapeString(string(utf16.Decode(units)))
	return strings.ReplaceAll(s, "\n", "<br/>")
}

func safeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
