// Package locale resolves the caller's language and formats dates and
// amounts for it.
package locale

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Default is used when nothing better matches.
var Default = language.AmericanEnglish

var supported = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.Dutch,
	language.French,
	language.Spanish,
	language.Japanese,
}

var matcher = language.NewMatcher(supported)

// Short numeric dates with a two-digit year, in the order each locale
// writes them.
var dateLayouts = map[language.Tag]string{
	language.AmericanEnglish: "1/2/06",
	language.BritishEnglish:  "02/01/06",
	language.German:          "2.1.06",
	language.Dutch:           "2-1-06",
	language.French:          "02/01/06",
	language.Spanish:         "2/1/06",
	language.Japanese:        "06/1/2",
}

// Supported returns the tags this package has formats for.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Match returns the supported tag closest to the given ones, or fallback.
func Match(fallback language.Tag, tags ...language.Tag) language.Tag {
	if len(tags) == 0 {
		return fallback
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return supported[index]
}

// Parse returns the supported tag for a single BCP 47 value.
func Parse(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return Default, false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return Default, false
	}
	return supported[index], true
}

// FromAcceptLanguage resolves an Accept-Language header value.
func FromAcceptLanguage(header string, fallback language.Tag) language.Tag {
	header = strings.TrimSpace(header)
	if header == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return fallback
	}
	return Match(fallback, tags...)
}

// DateLayout returns the time layout for short dates in tag.
func DateLayout(tag language.Tag) string {
	if layout, ok := dateLayouts[tag]; ok {
		return layout
	}
	return dateLayouts[Match(Default, tag)]
}

// FormatDate renders t as a short numeric date. The date is read in UTC.
func FormatDate(tag language.Tag, t time.Time) string {
	return t.UTC().Format(DateLayout(tag))
}

// FormatAmount renders v rounded to a whole number with the locale's digit
// grouping.
func FormatAmount(tag language.Tag, v float64) string {
	return message.NewPrinter(tag).Sprintf("%d", int64(math.Round(v)))
}
