package parse

import (
	"regexp"
	"strings"

	"prescription-chatbot/pkg"
)

// The "before" cue list is tested first on purpose: text containing both
// cue families ("take before food, not after meals") must resolve to
// before food.
var beforeFoodREs = []*regexp.Regexp{
	regexp.MustCompile(`before\s+food`),
	regexp.MustCompile(`before\s+meal`),
	regexp.MustCompile(`before\s+eating`),
	regexp.MustCompile(`empty\s+stomach`),
	regexp.MustCompile(`on\s+empty\s+stomach`),
}

var afterFoodREs = []*regexp.Regexp{
	regexp.MustCompile(`after\s+food`),
	regexp.MustCompile(`after\s+meal`),
	regexp.MustCompile(`after\s+eating`),
	regexp.MustCompile(`with\s+food`),
	regexp.MustCompile(`with\s+meal`),
}

// FoodTiming classifies the meal relation of a prescription.  It returns
// ok=false when neither cue family matches.
func FoodTiming(text string) (pkg.FoodTiming, bool) {
	lower := strings.ToLower(text)
	for _, re := range beforeFoodREs {
		if re.MatchString(lower) {
			return pkg.BeforeFood, true
		}
	}
	for _, re := range afterFoodREs {
		if re.MatchString(lower) {
			return pkg.AfterFood, true
		}
	}
	return "", false
}
