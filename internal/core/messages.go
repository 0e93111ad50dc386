package core

import (
	"fmt"
	"strings"

	"prescription-chatbot/pkg"
)

// messages.go renders the user-visible turn responses.  Messages embed the
// same simple markup the chat widget renders (<b>, <br>, <i>).

// FormatDuration renders "N unit" with the unit singular-corrected, e.g.
// "1 day" but "3 days".
func FormatDuration(value int, unit pkg.DurationUnit) string {
	u := string(unit)
	if u == "" {
		u = "-"
	} else if value == 1 {
		u = strings.TrimSuffix(u, "s")
	}
	return fmt.Sprintf("%d %s", value, u)
}

func timingDisplay(rec *pkg.PrescriptionRecord) string {
	if list := rec.TimingList(); len(list) > 0 {
		return strings.Join(list, ", ")
	}
	return "Not specified"
}

func foodTimingDisplay(rec *pkg.PrescriptionRecord) string {
	if rec.FoodTiming == "" {
		return "-"
	}
	return string(rec.FoodTiming)
}

func confirmationResponse(rec *pkg.PrescriptionRecord, patientName, date, extra string) *pkg.TurnResponse {
	var sb strings.Builder
	sb.WriteString("<b>Please review your prescription:</b><br>")
	fmt.Fprintf(&sb, "Patient: %s<br>", patientName)
	fmt.Fprintf(&sb, "Date: %s<br>", date)
	fmt.Fprintf(&sb, "Medicine: %s<br>", rec.MedicineName)
	fmt.Fprintf(&sb, "Duration: %s<br>", FormatDuration(rec.DurationValue, rec.DurationUnit))
	fmt.Fprintf(&sb, "Timing: %s<br>", timingDisplay(rec))
	fmt.Fprintf(&sb, "Food Timing: %s<br>", foodTimingDisplay(rec))
	fmt.Fprintf(&sb, "Times per day: %d<br>", rec.TimesPerDay)
	fmt.Fprintf(&sb, "Total tablets needed: %d<br>", rec.TotalTablets)
	if extra != "" {
		fmt.Fprintf(&sb, "<br><i>%s</i><br>", extra)
	}
	sb.WriteString("<br><b>Is everything correct?</b>")

	return &pkg.TurnResponse{
		Message:          sb.String(),
		ShowQuickButtons: true,
		QuickButtons: []pkg.QuickButton{
			{Text: "Yes, Save", Value: "yes"},
			{Text: "No, Edit", Value: "no"},
		},
	}
}

func savedResponse(rec *pkg.PrescriptionRecord, patientName, date, status string) *pkg.TurnResponse {
	var sb strings.Builder
	sb.WriteString("<b>Final Saved Prescription:</b><br>")
	fmt.Fprintf(&sb, "Patient: %s<br>", patientName)
	fmt.Fprintf(&sb, "Date: %s<br>", date)
	fmt.Fprintf(&sb, "Medicine: %s<br>", rec.MedicineName)
	fmt.Fprintf(&sb, "Duration: %s<br>", FormatDuration(rec.DurationValue, rec.DurationUnit))
	fmt.Fprintf(&sb, "Timing: %s<br>", timingDisplay(rec))
	fmt.Fprintf(&sb, "Food Timing: %s<br>", foodTimingDisplay(rec))
	fmt.Fprintf(&sb, "Times per day: %d<br>", rec.TimesPerDay)
	fmt.Fprintf(&sb, "Total tablets needed: %d<br>", rec.TotalTablets)
	fmt.Fprintf(&sb, "<br><b>%s</b><br>", status)
	sb.WriteString("<br>Thank you! You can enter another prescription anytime.")
	return &pkg.TurnResponse{Message: sb.String()}
}

func missingResponse(missing []string) *pkg.TurnResponse {
	var buttons []pkg.QuickButton
	for _, field := range missing {
		switch field {
		case MissingMedicine:
			buttons = append(buttons, medicineButtons()...)
		case MissingTiming:
			buttons = append(buttons, timingButtons()...)
		case MissingFoodTiming:
			buttons = append(buttons, foodTimingButtons()...)
		}
	}
	return &pkg.TurnResponse{
		Message:          "Please provide the following missing information: " + strings.Join(missing, ", "),
		ShowQuickButtons: len(buttons) > 0,
		QuickButtons:     buttons,
	}
}

func editChoiceResponse() *pkg.TurnResponse {
	return &pkg.TurnResponse{
		Message:          EditChoiceMessage,
		ShowQuickButtons: true,
		QuickButtons: []pkg.QuickButton{
			{Text: "Change Medicine", Value: "medicine"},
			{Text: "Change Duration", Value: "duration"},
			{Text: "Change Timing", Value: "timing"},
			{Text: "Change Food Timing", Value: "food_timing"},
		},
	}
}

func fieldMenuResponse(selector string) *pkg.TurnResponse {
	switch selector {
	case "medicine":
		return &pkg.TurnResponse{
			Message:          "Please enter the medicine name:",
			ShowQuickButtons: true,
			QuickButtons: append(medicineButtons(),
				pkg.QuickButton{Text: "Crocin", Value: "Medicine: Crocin"}),
		}
	case "duration":
		return &pkg.TurnResponse{
			Message:          "Please select duration:",
			ShowQuickButtons: true,
			QuickButtons: []pkg.QuickButton{
				{Text: "3 days", Value: "Duration: 3 days"},
				{Text: "5 days", Value: "Duration: 5 days"},
				{Text: "7 days", Value: "Duration: 7 days"},
				{Text: "2 weeks", Value: "Duration: 2 weeks"},
			},
		}
	case "timing":
		return &pkg.TurnResponse{
			Message:          "Please select timing:",
			ShowQuickButtons: true,
			QuickButtons:     timingButtons(),
		}
	default: // food_timing
		return &pkg.TurnResponse{
			Message:          "Please select food timing:",
			ShowQuickButtons: true,
			QuickButtons:     foodTimingButtons(),
		}
	}
}

func medicineButtons() []pkg.QuickButton {
	return []pkg.QuickButton{
		{Text: "Paracetamol", Value: "Medicine: Paracetamol"},
		{Text: "Dolo", Value: "Medicine: Dolo"},
		{Text: "Aspirin", Value: "Medicine: Aspirin"},
	}
}

func timingButtons() []pkg.QuickButton {
	return []pkg.QuickButton{
		{Text: "Morning", Value: "morning"},
		{Text: "Afternoon", Value: "afternoon"},
		{Text: "Night", Value: "night"},
		{Text: "Morning & Night", Value: "morning and night"},
		{Text: "All three times", Value: "morning, afternoon and night"},
	}
}

func foodTimingButtons() []pkg.QuickButton {
	return []pkg.QuickButton{
		{Text: "Before Food", Value: "before food"},
		{Text: "After Food", Value: "after food"},
	}
}
