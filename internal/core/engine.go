package core

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"prescription-chatbot/internal/parse"
	"prescription-chatbot/internal/session"
	"prescription-chatbot/pkg"
)

// RecordStore appends finalized prescriptions to durable storage.
type RecordStore interface {
	Append(ctx context.Context, row *pkg.RecordRow) error
}

var (
	affirmativeTokens = map[string]struct{}{
		"yes": {}, "y": {}, "correct": {}, "ok": {}, "confirm": {},
	}
	negativeTokens = map[string]struct{}{
		"no": {}, "n": {}, "incorrect": {}, "edit": {},
	}
	fieldSelectors = map[string]struct{}{
		"medicine": {}, "duration": {}, "timing": {}, "food_timing": {},
	}
)

// Engine is the per-turn conversation state machine.  Each turn is
// dispatched through an ordered rule table so the precedence between
// confirmation, edits, and initial processing stays explicit.  A turn
// never returns an error: every collaborator failure degrades to a
// user-visible message.
type Engine struct {
	builder  *Builder
	sessions session.Store
	records  RecordStore
	rules    []turnRule
	now      func() time.Time
}

type turnState struct {
	sessionID   string
	patientName string
	message     string
	normalized  string // lower-cased, trimmed
	pending     *pkg.PrescriptionRecord
}

type turnRule struct {
	name    string
	matches func(*turnState) bool
	handle  func(context.Context, *turnState) *pkg.TurnResponse
}

// NewEngine constructs a conversation engine.
func NewEngine(builder *Builder, sessions session.Store, records RecordStore) *Engine {
	e := &Engine{
		builder:  builder,
		sessions: sessions,
		records:  records,
		now:      time.Now,
	}
	// Evaluated top to bottom; the affirmative check must precede the
	// field-edit checks so "yes" is never mistaken for prescription text.
	e.rules = []turnRule{
		{
			name: "confirm",
			matches: func(t *turnState) bool {
				_, ok := affirmativeTokens[t.normalized]
				return ok
			},
			handle: e.handleConfirm,
		},
		{
			name: "reject",
			matches: func(t *turnState) bool {
				_, ok := negativeTokens[t.normalized]
				return ok
			},
			handle: e.handleReject,
		},
		{
			name: "field-select",
			matches: func(t *turnState) bool {
				if t.pending == nil {
					return false
				}
				_, ok := fieldSelectors[t.normalized]
				return ok
			},
			handle: func(_ context.Context, t *turnState) *pkg.TurnResponse {
				return fieldMenuResponse(t.normalized)
			},
		},
		{
			name: "field-edit",
			matches: func(t *turnState) bool {
				return t.pending != nil && strings.Contains(t.message, ":")
			},
			handle: e.handleFieldEdit,
		},
		{
			name: "timing-replace",
			matches: func(t *turnState) bool {
				return t.pending != nil && parse.DetectSlots(t.message).Any()
			},
			handle: e.handleTimingReplace,
		},
		{
			name: "food-timing-replace",
			matches: func(t *turnState) bool {
				if t.pending == nil {
					return false
				}
				_, ok := parse.FoodTiming(t.message)
				return ok
			},
			handle: e.handleFoodTimingReplace,
		},
		{
			name: "edit-fallback",
			matches: func(t *turnState) bool {
				return t.pending != nil
			},
			handle: func(context.Context, *turnState) *pkg.TurnResponse {
				return &pkg.TurnResponse{Message: EditFormatMessage}
			},
		},
		{
			name:    "initial",
			matches: func(*turnState) bool { return true },
			handle:  e.handleInitial,
		},
	}
	return e
}

// StartChat begins (or restarts) a session: any pending prescription is
// discarded unconditionally and the welcome message is returned.
func (e *Engine) StartChat(ctx context.Context, sessionID string) *pkg.TurnResponse {
	if err := e.sessions.Clear(ctx, sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("failed to clear pending prescription")
	}
	return &pkg.TurnResponse{Message: WelcomeMessage}
}

// Turn processes one inbound message for a session and always produces a
// response within the same call.
func (e *Engine) Turn(ctx context.Context, sessionID, patientName, message string) *pkg.TurnResponse {
	t := &turnState{
		sessionID:   sessionID,
		patientName: patientName,
		message:     message,
		normalized:  strings.ToLower(strings.TrimSpace(message)),
	}
	pending, ok, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("session store read failed")
	} else if ok {
		t.pending = pending
	}

	for _, rule := range e.rules {
		if rule.matches(t) {
			return rule.handle(ctx, t)
		}
	}
	// Unreachable: the initial rule matches everything.
	return &pkg.TurnResponse{Message: WelcomeMessage}
}

func (e *Engine) today() string {
	return e.now().Format("2006-01-02")
}

// handleInitial runs the extraction pipeline over a fresh instruction.  An
// incomplete record is not stored; the user is prompted for the missing
// fields instead.
func (e *Engine) handleInitial(ctx context.Context, t *turnState) *pkg.TurnResponse {
	result := e.builder.Build(ctx, t.message)
	if !result.Complete() {
		return missingResponse(result.Missing)
	}
	if err := e.sessions.Put(ctx, t.sessionID, result.Record); err != nil {
		log.Error().Err(err).Str("session", t.sessionID).Msg("session store write failed")
		return &pkg.TurnResponse{Message: "Something went wrong while preparing your prescription. Please enter it again."}
	}
	return confirmationResponse(result.Record, t.patientName, e.today(), "")
}

func (e *Engine) handleConfirm(ctx context.Context, t *turnState) *pkg.TurnResponse {
	if t.pending == nil {
		return &pkg.TurnResponse{Message: NoPendingSaveMessage}
	}
	return e.save(ctx, t)
}

func (e *Engine) handleReject(_ context.Context, t *turnState) *pkg.TurnResponse {
	if t.pending == nil {
		return &pkg.TurnResponse{Message: NoPendingEditMessage}
	}
	return editChoiceResponse()
}

// handleFieldEdit applies one or more comma-separated "Field: Value"
// edits.  Each value is re-parsed by the matching parser; an edit whose
// value does not parse is dropped rather than corrupting the record.
func (e *Engine) handleFieldEdit(ctx context.Context, t *turnState) *pkg.TurnResponse {
	rec := t.pending
	var updated []string

	for _, part := range strings.Split(t.message, ",") {
		field, value, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		switch field {
		case "medicine name", "medicine":
			if value != "" {
				rec.MedicineName = value
				updated = append(updated, "Medicine Name")
			}
		case "duration":
			if v, unit, ok := parse.Duration(value); ok {
				rec.DurationValue = v
				rec.DurationUnit = unit
				updated = append(updated, "Duration")
			}
		case "timing":
			applyTiming(rec, parse.DetectSlots(value))
			updated = append(updated, "Timing")
		case "times per day", "frequency":
			// An explicit frequency edit does not re-derive the
			// slots; the two stay independent signals.
			if v, err := strconv.Atoi(value); err == nil && v >= 1 {
				rec.TimesPerDay = v
				updated = append(updated, "Times Per Day")
			}
		case "food timing":
			if ft, ok := parse.FoodTiming(value); ok {
				rec.FoodTiming = ft
				updated = append(updated, "Food Timing")
			}
		}
	}

	if len(updated) == 0 {
		return &pkg.TurnResponse{Message: EditFormatMessage}
	}
	rec.TotalTablets = parse.TotalTablets(rec.DurationValue, rec.DurationUnit, rec.TimesPerDay)
	if err := e.sessions.Put(ctx, t.sessionID, rec); err != nil {
		log.Error().Err(err).Str("session", t.sessionID).Msg("session store write failed")
	}
	return confirmationResponse(rec, t.patientName, e.today(), "Updated: "+strings.Join(updated, ", "))
}

// handleTimingReplace treats a bare time-of-day message ("morning and
// night") as a wholesale timing replacement.
func (e *Engine) handleTimingReplace(ctx context.Context, t *turnState) *pkg.TurnResponse {
	rec := t.pending
	applyTiming(rec, parse.DetectSlots(t.message))
	rec.TotalTablets = parse.TotalTablets(rec.DurationValue, rec.DurationUnit, rec.TimesPerDay)
	if err := e.sessions.Put(ctx, t.sessionID, rec); err != nil {
		log.Error().Err(err).Str("session", t.sessionID).Msg("session store write failed")
	}
	return confirmationResponse(rec, t.patientName, e.today(), "Updated timing")
}

func (e *Engine) handleFoodTimingReplace(ctx context.Context, t *turnState) *pkg.TurnResponse {
	rec := t.pending
	if ft, ok := parse.FoodTiming(t.message); ok {
		rec.FoodTiming = ft
	}
	if err := e.sessions.Put(ctx, t.sessionID, rec); err != nil {
		log.Error().Err(err).Str("session", t.sessionID).Msg("session store write failed")
	}
	return confirmationResponse(rec, t.patientName, e.today(), "Updated food timing")
}

// applyTiming resets all three slots, applies the new ones, and recomputes
// the frequency from the slot count (minimum 1).
func applyTiming(rec *pkg.PrescriptionRecord, slots parse.Slots) {
	rec.Morning = slots.Morning
	rec.Afternoon = slots.Afternoon
	rec.Night = slots.Night
	if n := slots.Count(); n > 0 {
		rec.TimesPerDay = n
	} else {
		rec.TimesPerDay = 1
	}
}

// save flattens the pending record, appends it to the record store, and
// clears the session.  A failed append keeps the pending record so the
// user can retry with another "yes".
func (e *Engine) save(ctx context.Context, t *turnState) *pkg.TurnResponse {
	rec := t.pending
	row := FlattenRecord(rec, t.patientName, e.today())

	if err := e.records.Append(ctx, row); err != nil {
		log.Error().Err(err).Str("session", t.sessionID).Msg("record store append failed")
		status := SaveFailStatusPrefix + err.Error() + "<br>" + SaveRetryHint
		return savedResponse(rec, t.patientName, e.today(), status)
	}
	if err := e.sessions.Clear(ctx, t.sessionID); err != nil {
		log.Warn().Err(err).Str("session", t.sessionID).Msg("failed to clear saved prescription")
	}
	log.Info().Str("session", t.sessionID).Str("medicine", row.MedicineName).Msg("prescription saved")
	return savedResponse(rec, t.patientName, e.today(), SaveOKStatus)
}

// FlattenRecord renders a pending record as a record-store row.
func FlattenRecord(rec *pkg.PrescriptionRecord, patientName, date string) *pkg.RecordRow {
	name := patientName
	if name == "" {
		name = "Unknown"
	}
	timing := "-"
	if list := rec.TimingList(); len(list) > 0 {
		timing = strings.Join(list, ", ")
	}
	foodTiming := "-"
	if rec.FoodTiming != "" {
		foodTiming = string(rec.FoodTiming)
	}
	return &pkg.RecordRow{
		PatientName:     name,
		Date:            date,
		MedicineName:    rec.MedicineName,
		Duration:        FormatDuration(rec.DurationValue, rec.DurationUnit),
		DurationUnit:    string(rec.DurationUnit),
		Timing:          timing,
		FoodTiming:      foodTiming,
		TimesPerDay:     rec.TimesPerDay,
		TotalTablets:    rec.TotalTablets,
		RawPrescription: rec.RawText,
	}
}
