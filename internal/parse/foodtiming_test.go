package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prescription-chatbot/pkg"
)

func TestFoodTiming(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		timing pkg.FoodTiming
		ok     bool
	}{
		{"before food", "take before food", pkg.BeforeFood, true},
		{"before meal", "one tablet before meal", pkg.BeforeFood, true},
		{"empty stomach", "on empty stomach", pkg.BeforeFood, true},
		{"after food", "take after food", pkg.AfterFood, true},
		{"after eating", "after eating", pkg.AfterFood, true},
		{"with food", "ibuprofen with food", pkg.AfterFood, true},
		{"case insensitive", "BEFORE FOOD", pkg.BeforeFood, true},
		{"no cue", "take paracetamol for 3 days", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			timing, ok := FoodTiming(tc.text)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.timing, timing)
		})
	}
}

// Text containing both cue families must always resolve to before food,
// regardless of the order the cues appear in the text.
func TestFoodTimingBeforeWinsOverAfter(t *testing.T) {
	both := []string{
		"take before food, not after food",
		"after meals or before food",
		"with food or on empty stomach",
		"after eating before meal",
	}
	for _, text := range both {
		timing, ok := FoodTiming(text)
		assert.True(t, ok, text)
		assert.Equal(t, pkg.BeforeFood, timing, text)
	}
}
