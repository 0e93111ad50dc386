package parse

import "prescription-chatbot/pkg"

// TotalTablets derives the tablet count from the duration and the daily
// frequency.  Months are approximated as 30 days and an unknown unit is
// treated as days already.  Invalid input yields 0; this function must
// never abort the conversation flow.
func TotalTablets(durationValue int, unit pkg.DurationUnit, timesPerDay int) int {
	if durationValue <= 0 || timesPerDay <= 0 {
		return 0
	}
	totalDays := durationValue
	switch unit {
	case pkg.UnitWeeks:
		totalDays = durationValue * 7
	case pkg.UnitMonths:
		totalDays = durationValue * 30
	}
	total := totalDays * timesPerDay
	if total < 0 { // overflow
		return 0
	}
	return total
}
