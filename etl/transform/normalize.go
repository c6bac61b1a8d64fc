package transform

import (
	"strings"
	"unicode"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/schema"
)

// normalizeText trims whitespace and applies the declared casing to a string
// value. Non-string values pass through untouched.
func normalizeText(value interface{}, casing schema.Casing) interface{} {
	s, ok := value.(string)
	if !ok {
		return value
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	switch casing {
	case schema.CasingUpper:
		return strings.ToUpper(s)
	case schema.CasingLower:
		return strings.ToLower(s)
	case schema.CasingTitle:
		return titleCase(s)
	default:
		return s
	}
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, so "jane doe" becomes "Jane Doe" and "ECONOMY PLUS" becomes
// "Economy Plus".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	startOfWord := true
	for _, r := range s {
		if !unicode.IsLetter(r) {
			startOfWord = true
			b.WriteRune(r)
			continue
		}
		if startOfWord {
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
