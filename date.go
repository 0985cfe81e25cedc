package spacetraveling

import (
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

var supportedLocales = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// dateLocales maps each supported locale to its calendar names.
var dateLocales = map[language.Tag]monday.Locale{
	language.BrazilianPortuguese: monday.LocalePtBR,
	language.English:             monday.LocaleEnUS,
}

// MatchLocale returns the supported locale closest to the requested one.
// Unknown or unparseable values fall back to pt-BR.
func MatchLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return supportedLocales[0]
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return supportedLocales[0]
	}
	return supportedLocales[idx]
}

// FormatDate renders t as "dd MMM yyyy" in the given locale, e.g.
// "15 mar 2021". A nil time renders as the empty string.
func FormatDate(t *time.Time, locale language.Tag) string {
	if t == nil || t.IsZero() {
		return ""
	}
	loc, ok := dateLocales[locale]
	if !ok {
		loc = monday.LocalePtBR
	}
	return monday.Format(*t, "02 Jan 2006", loc)
}
