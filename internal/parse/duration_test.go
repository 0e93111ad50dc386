package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prescription-chatbot/pkg"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		value int
		unit  pkg.DurationUnit
		ok    bool
	}{
		{"plain days", "take paracetamol for 3 days", 3, pkg.UnitDays, true},
		{"singular day", "for 1 day", 1, pkg.UnitDays, true},
		{"weeks", "aspirin for 2 weeks", 2, pkg.UnitWeeks, true},
		{"months", "vitamin d for 1 month", 1, pkg.UnitMonths, true},
		{"short d", "3d", 3, pkg.UnitDays, true},
		{"short w", "2 w", 2, pkg.UnitWeeks, true},
		{"short m", "6m", 6, pkg.UnitMonths, true},
		{"case insensitive", "For 5 DAYS", 5, pkg.UnitDays, true},
		{"first match wins", "2 weeks then 3 days", 2, pkg.UnitWeeks, true},
		{"frequency digits are not a duration", "2 times a day for 3 days", 3, pkg.UnitDays, true},
		{"no duration", "take paracetamol twice daily", 0, "", false},
		{"empty", "", 0, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			value, unit, ok := Duration(tc.text)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.value, value)
			assert.Equal(t, tc.unit, unit)
		})
	}
}
