package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Status reports whether the timing slots of an instruction are resolved.
type Status string

const (
	StatusComplete     Status = "complete"
	StatusTimingNeeded Status = "timing_needed"
)

// Slots are the morning/afternoon/night time-of-day flags.
type Slots struct {
	Morning   bool
	Afternoon bool
	Night     bool
}

// Any reports whether at least one slot is set.
func (s Slots) Any() bool { return s.Morning || s.Afternoon || s.Night }

// Count returns the number of set slots.
func (s Slots) Count() int {
	n := 0
	if s.Morning {
		n++
	}
	if s.Afternoon {
		n++
	}
	if s.Night {
		n++
	}
	return n
}

// Slot keywords are word-bounded: the short forms "am"/"pm" must not fire
// inside drug names such as "paracetamol".
var (
	morningRE   = regexp.MustCompile(`\b(?:morning|morn|am|breakfast)\b`)
	afternoonRE = regexp.MustCompile(`\b(?:afternoon|lunch|noon|pm)\b`)
	nightRE     = regexp.MustCompile(`\b(?:night|evening|dinner|bedtime|sleep)\b`)
)

// Tried in order; the first pattern that matches supplies times per day.
var frequencyREs = []*regexp.Regexp{
	regexp.MustCompile(`for\s+(\d+)\s*times?\s*(?:a\s*)?day`),
	regexp.MustCompile(`(\d+)\s*times?\s*(?:a\s*)?day`),
	regexp.MustCompile(`(\d+)\s*times?\s*daily`),
	regexp.MustCompile(`(\d+)[x×]\s*day`),
	regexp.MustCompile(`(\d+)\s*/\s*day`),
}

// FrequencyResult is the outcome of the frequency pass over one
// instruction.  Explicit distinguishes a numeric frequency found in the
// text from the defaulted value.
type FrequencyResult struct {
	Slots       Slots
	TimesPerDay int
	Explicit    bool
	Status      Status
}

// DetectSlots runs the slot keyword pass in isolation.  The conversation
// engine reuses it when a timing edit replaces the slots wholesale.
func DetectSlots(text string) Slots {
	lower := strings.ToLower(text)
	return Slots{
		Morning:   morningRE.MatchString(lower),
		Afternoon: afternoonRE.MatchString(lower),
		Night:     nightRE.MatchString(lower),
	}
}

// Frequency extracts the time-of-day slots and times-per-day count from
// text.  When no numeric pattern matches, the slot count stands in for the
// frequency (minimum 1).  Status is timing_needed iff no slot matched; the
// missing-field policy consults the status, not the slot booleans.
func Frequency(text string) FrequencyResult {
	lower := strings.ToLower(text)
	slots := DetectSlots(lower)

	timesPerDay := 0
	explicit := false
	for _, re := range frequencyREs {
		if m := re.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				timesPerDay = v
				explicit = true
			}
			break
		}
	}
	if !explicit {
		timesPerDay = slots.Count()
		if timesPerDay == 0 {
			timesPerDay = 1
		}
	}

	status := StatusTimingNeeded
	if slots.Any() {
		status = StatusComplete
	}
	return FrequencyResult{Slots: slots, TimesPerDay: timesPerDay, Explicit: explicit, Status: status}
}

// InferSlots back-fills slots from an explicit frequency by convention:
// once daily is a morning dose, twice is morning and night, three times is
// all three.  Other counts leave the slots unset and the frequency stands
// alone.
func InferSlots(timesPerDay int) Slots {
	switch timesPerDay {
	case 1:
		return Slots{Morning: true}
	case 2:
		return Slots{Morning: true, Night: true}
	case 3:
		return Slots{Morning: true, Afternoon: true, Night: true}
	default:
		return Slots{}
	}
}
