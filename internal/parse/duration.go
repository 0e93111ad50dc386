// Package parse implements the deterministic extraction rules that turn a
// free-form prescription instruction into structured fields.  Every parser
// works on lower-cased text with package-level compiled patterns; parsers
// never return errors, an unresolved field is reported through an ok flag
// or a sentinel value.
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"prescription-chatbot/pkg"
)

// Alternation order mirrors the accepted unit spellings; the single-letter
// forms are shorthand, not word-bounded, so "3d" and "3 d" both resolve.
var durationRE = regexp.MustCompile(`(\d+)\s*(day|days|week|weeks|month|months|d|w|m)`)

// Duration extracts a duration quantity and unit from text.  The first
// match by scan position wins.  It returns ok=false when no duration is
// present.
func Duration(text string) (int, pkg.DurationUnit, bool) {
	m := durationRE.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, "", false
	}
	value, err := strconv.Atoi(m[1])
	if err != nil || value <= 0 {
		return 0, "", false
	}
	switch m[2][0] {
	case 'd':
		return value, pkg.UnitDays, true
	case 'w':
		return value, pkg.UnitWeeks, true
	default:
		return value, pkg.UnitMonths, true
	}
}
