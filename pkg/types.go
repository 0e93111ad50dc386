package pkg

// DurationUnit is a normalized prescription duration unit.  The empty
// string means the duration unit has not been resolved yet.
type DurationUnit string

const (
	UnitDays   DurationUnit = "days"
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
)

// FoodTiming describes when a medicine is taken relative to meals.  The
// empty string means the field has not been resolved yet.
type FoodTiming string

const (
	BeforeFood FoodTiming = "before food"
	AfterFood  FoodTiming = "after food"
)

// MedicineNotSpecified is the sentinel medicine name used until the drug
// name has been resolved from the instruction text.
const MedicineNotSpecified = "Not specified"

// PrescriptionRecord is the in-progress structured prescription for one
// chat session.  It is mutated in place by edit turns and removed from the
// session store when a save succeeds.
type PrescriptionRecord struct {
	MedicineName  string       `json:"medicine_name"`
	DurationValue int          `json:"duration_value"` // 0 = unset
	DurationUnit  DurationUnit `json:"duration_unit"`  // "" = unset
	Morning       bool         `json:"morning"`
	Afternoon     bool         `json:"afternoon"`
	Night         bool         `json:"night"`
	TimesPerDay   int          `json:"times_per_day"`
	FoodTiming    FoodTiming   `json:"food_timing"` // "" = unset
	TotalTablets  int          `json:"total_tablets"`
	RawText       string       `json:"raw_text"`
}

// HasDuration reports whether a duration has been resolved.
func (r *PrescriptionRecord) HasDuration() bool {
	return r.DurationValue > 0 && r.DurationUnit != ""
}

// HasTiming reports whether at least one time-of-day slot is set.
func (r *PrescriptionRecord) HasTiming() bool {
	return r.Morning || r.Afternoon || r.Night
}

// TimingList returns the names of the active time-of-day slots in
// morning, afternoon, night order.
func (r *PrescriptionRecord) TimingList() []string {
	var out []string
	if r.Morning {
		out = append(out, "Morning")
	}
	if r.Afternoon {
		out = append(out, "Afternoon")
	}
	if r.Night {
		out = append(out, "Night")
	}
	return out
}

// TurnRequest is the inbound body for one conversation turn.
type TurnRequest struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// QuickButton is a pre-canned reply; Value is fed back verbatim as the
// next turn's message.
type QuickButton struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// TurnResponse is the outbound body for one conversation turn.  Message
// may embed simple markup for the chat widget.
type TurnResponse struct {
	Message          string        `json:"message"`
	ShowQuickButtons bool          `json:"show_quick_buttons"`
	QuickButtons     []QuickButton `json:"quick_buttons,omitempty"`
}

// RecordRow is one flattened, finalized prescription as appended to the
// record store.  Field order mirrors the store's column order.
type RecordRow struct {
	PatientName     string `json:"patient_name"`
	Date            string `json:"date"` // ISO YYYY-MM-DD
	MedicineName    string `json:"medicine_name"`
	Duration        string `json:"duration"` // "N unit", singular-corrected
	DurationUnit    string `json:"duration_unit"`
	Timing          string `json:"timing"` // comma list or "-"
	FoodTiming      string `json:"food_timing"`
	TimesPerDay     int    `json:"times_per_day"`
	TotalTablets    int    `json:"total_tablets"`
	RawPrescription string `json:"raw_prescription"`
}

// AdminStats are the aggregate counters shown on the admin dashboard.
type AdminStats struct {
	TotalPrescriptions int    `json:"totalPrescriptions"`
	TodayPrescriptions int    `json:"todayPrescriptions"`
	UniquePatients     int    `json:"uniquePatients"`
	MostPrescribed     string `json:"mostPrescribed"`
}
