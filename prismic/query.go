package prismic

import (
	"fmt"
	"strconv"
	"strings"
)

// Query describes a documents/search request.
type Query struct {
	Predicates []string
	PageSize   int
	Page       int
	Orderings  string
	Lang       string
}

// At builds an equality predicate, e.g. At("document.type", "posts").
func At(path, value string) string {
	return fmt.Sprintf(`[at(%s,%s)]`, path, strconv.Quote(value))
}

// TypeIs matches documents of the given custom type.
func TypeIs(docType string) string {
	return At("document.type", docType)
}

// UIDIs matches the document of docType with the given uid.
func UIDIs(docType, uid string) string {
	return At("my."+docType+".uid", uid)
}

// OrderBy renders an orderings parameter, e.g.
// OrderBy("document.last_publication_date desc").
func OrderBy(fields ...string) string {
	if len(fields) == 0 {
		return ""
	}
	return "[" + strings.Join(fields, ",") + "]"
}

func (q Query) encode() string {
	return "[" + strings.Join(q.Predicates, "") + "]"
}
