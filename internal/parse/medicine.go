package parse

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"prescription-chatbot/pkg"
)

var medicinePrefixRE = regexp.MustCompile(`^(take\s+(the\s+)?|have\s+)`)

// Each pattern captures a leading alphabetic run immediately followed by a
// dose/timing/duration cue.  The final pattern accepts a bare drug name
// with nothing after it ("metformin").
var medicineREs = []*regexp.Regexp{
	regexp.MustCompile(`^([a-z][a-z\s]*?)\s+(?:\d+|tablet|twice|once|morning|afternoon|night|before|after|for)`),
	regexp.MustCompile(`^([a-z][a-z\s]*?)\s+(?:\d+\s*times)`),
	regexp.MustCompile(`^([a-z][a-z\s]*?)\s+(?:for\s+\d+)`),
	regexp.MustCompile(`^([a-z][a-z\s]*?)(?:\s+\d+|\s+tablet|\s+twice|\s+once)`),
	regexp.MustCompile(`^([a-z]+)\s*$`),
}

var medicineStopWords = map[string]struct{}{
	"the": {}, "for": {}, "take": {}, "tablet": {}, "tablets": {},
	"times": {}, "day": {}, "days": {}, "in": {}, "and": {}, "or": {},
	"have": {},
}

var titleCaser = cases.Title(language.English)

// MedicineName heuristically isolates the drug name from an instruction.
// It returns the "Not specified" sentinel when no pattern yields a usable
// name.
func MedicineName(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	lower = medicinePrefixRE.ReplaceAllString(lower, "")

	for _, re := range medicineREs {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if _, stop := medicineStopWords[name]; stop || name == "" {
			continue
		}
		return titleCaser.String(name)
	}
	return pkg.MedicineNotSpecified
}
