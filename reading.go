package spacetraveling

import (
	"strings"

	"github.com/marcelafreire/desafio-spacetraveling/richtext"
)

// DefaultWordsPerMinute is the reading speed used for article estimates.
const DefaultWordsPerMinute = 200

// CountWords returns the number of whitespace-separated words across all
// sections: every heading plus the plain text of every body.
func CountWords(sections []Section) int {
	total := 0
	for _, s := range sections {
		total += len(strings.Fields(s.Heading))
		total += len(strings.Fields(richtext.AsText(s.Body)))
	}
	return total
}

// EstimateReadingMinutes returns ceil(words / wordsPerMinute). Empty content
// reads in 0 minutes. A non-positive wordsPerMinute falls back to
// DefaultWordsPerMinute.
func EstimateReadingMinutes(sections []Section, wordsPerMinute int) int {
	return readingMinutes(CountWords(sections), wordsPerMinute)
}

func readingMinutes(words, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	if words <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
