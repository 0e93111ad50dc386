package core

import (
	"context"
	"strconv"
	"strings"

	"prescription-chatbot/internal/parse"
	"prescription-chatbot/pkg"
)

// Display labels for the missing-field prompts.  The engine keys its
// quick-reply suggestions off these exact strings.
const (
	MissingMedicine   = "Medicine Name"
	MissingDuration   = "Duration (e.g., '3 days', '2 weeks')"
	MissingTiming     = "Timing (morning/afternoon/night)"
	MissingFoodTiming = "Food Timing (before food/after food)"
)

// BuildResult is one candidate prescription plus the set of required
// fields that could not be resolved.  TotalTablets is only computed when
// the missing set is empty.
type BuildResult struct {
	Record  *pkg.PrescriptionRecord
	Missing []string
}

// Complete reports whether every required field was resolved.
func (r BuildResult) Complete() bool { return len(r.Missing) == 0 }

// Builder composes the rule-based parsers into one candidate record and
// layers the advisory extraction overrides on top.
type Builder struct {
	Extractor *Extractor
}

// NewBuilder constructs a Builder.  The extractor may be nil when no
// language-model service is configured.
func NewBuilder(extractor *Extractor) *Builder {
	return &Builder{Extractor: extractor}
}

// Build runs the full extraction pipeline over one instruction: rule-based
// parsing, slot inference, extraction overrides, then the missing-field
// check.  It never fails; ambiguity is reported through the missing set.
func (b *Builder) Build(ctx context.Context, rawText string) BuildResult {
	rec := &pkg.PrescriptionRecord{
		MedicineName: parse.MedicineName(rawText),
		TimesPerDay:  1,
		RawText:      rawText,
	}

	if value, unit, ok := parse.Duration(rawText); ok {
		rec.DurationValue = value
		rec.DurationUnit = unit
	}

	freq := parse.Frequency(rawText)
	slots := freq.Slots
	// Back-fill slots only from an explicit frequency.  A defaulted
	// count must not invent a morning dose: "metformin" alone still
	// needs a timing clarification.
	if !slots.Any() && freq.Explicit {
		slots = parse.InferSlots(freq.TimesPerDay)
	}
	rec.Morning = slots.Morning
	rec.Afternoon = slots.Afternoon
	rec.Night = slots.Night
	rec.TimesPerDay = freq.TimesPerDay

	if ft, ok := parse.FoodTiming(rawText); ok {
		rec.FoodTiming = ft
	}

	if b.Extractor != nil {
		if overrides, ok := b.Extractor.Extract(ctx, rawText); ok {
			applyOverrides(rec, overrides)
		}
	}

	var missing []string
	if rec.MedicineName == pkg.MedicineNotSpecified {
		missing = append(missing, MissingMedicine)
	}
	if !rec.HasDuration() {
		missing = append(missing, MissingDuration)
	}
	if !rec.HasTiming() {
		missing = append(missing, MissingTiming)
	}
	if rec.FoodTiming == "" {
		missing = append(missing, MissingFoodTiming)
	}

	if len(missing) == 0 {
		rec.TotalTablets = parse.TotalTablets(rec.DurationValue, rec.DurationUnit, rec.TimesPerDay)
	}
	return BuildResult{Record: rec, Missing: missing}
}

// applyOverrides merges the extraction reply into the record field by
// field.  Unrecognized keys are ignored; "not mentioned" style values are
// no-ops so a vague reply cannot erase a rule-based result.
func applyOverrides(rec *pkg.PrescriptionRecord, overrides map[string]string) {
	for key, value := range overrides {
		if emptyOverride(value) {
			continue
		}
		switch key {
		case "medicine name", "medicine":
			rec.MedicineName = value
		case "duration":
			if v, err := strconv.Atoi(value); err == nil && v > 0 {
				rec.DurationValue = v
				if rec.DurationUnit == "" {
					rec.DurationUnit = pkg.UnitDays
				}
			}
		case "duration unit":
			if unit, ok := normalizeUnit(value); ok {
				rec.DurationUnit = unit
			}
		// Slot overrides only assert, never clear: the prompt says
		// "yes" strictly for explicit mentions, so a "no" must not
		// erase a slot the frequency convention back-filled.
		case "morning":
			if isYes(value) {
				rec.Morning = true
			}
		case "afternoon":
			if isYes(value) {
				rec.Afternoon = true
			}
		case "night":
			if isYes(value) {
				rec.Night = true
			}
		case "times per day":
			if v, err := strconv.Atoi(value); err == nil && v >= 1 {
				rec.TimesPerDay = v
			}
		case "food timing":
			if ft, ok := parse.FoodTiming(value); ok {
				rec.FoodTiming = ft
			}
		}
	}
}

func emptyOverride(value string) bool {
	switch strings.ToLower(value) {
	case "", "-", "not mentioned", "not specified", "none", "n/a":
		return true
	}
	return false
}

func isYes(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "yes")
}

func normalizeUnit(value string) (pkg.DurationUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "day", "days", "d":
		return pkg.UnitDays, true
	case "week", "weeks", "w":
		return pkg.UnitWeeks, true
	case "month", "months", "m":
		return pkg.UnitMonths, true
	}
	return "", false
}
