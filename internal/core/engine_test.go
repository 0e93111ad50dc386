package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prescription-chatbot/internal/session"
	"prescription-chatbot/pkg"
)

// fakeRecords implements RecordStore for tests.
type fakeRecords struct {
	err  error
	rows []*pkg.RecordRow
}

func (f *fakeRecords) Append(_ context.Context, row *pkg.RecordRow) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

const testDate = "2024-03-15"

func newTestEngine(records *fakeRecords) (*Engine, session.Store) {
	sessions := session.NewMemoryStore()
	e := NewEngine(NewBuilder(nil), sessions, records)
	e.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	}
	return e, sessions
}

func TestStartChatClearsPending(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	_, ok, _ := sessions.Get(ctx, "s1")
	require.True(t, ok)

	resp := e.StartChat(ctx, "s1")
	assert.Equal(t, WelcomeMessage, resp.Message)
	_, ok, _ = sessions.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestCompleteInstructionShowsConfirmation(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	resp := e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	assert.Contains(t, resp.Message, "Please review your prescription")
	assert.Contains(t, resp.Message, "Medicine: Paracetamol")
	assert.Contains(t, resp.Message, "Duration: 3 days")
	assert.Contains(t, resp.Message, "Total tablets needed: 6")
	require.True(t, resp.ShowQuickButtons)
	assert.Equal(t, []pkg.QuickButton{
		{Text: "Yes, Save", Value: "yes"},
		{Text: "No, Edit", Value: "no"},
	}, resp.QuickButtons)

	rec, ok, err := sessions.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 6, rec.TotalTablets)
}

func TestIncompleteInstructionPromptsForMissing(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	resp := e.Turn(ctx, "s1", "Alice", "metformin")
	assert.Contains(t, resp.Message, "Please provide the following missing information")
	assert.Contains(t, resp.Message, MissingDuration)
	assert.Contains(t, resp.Message, MissingTiming)
	assert.Contains(t, resp.Message, MissingFoodTiming)
	assert.NotContains(t, resp.Message, "Medicine Name,")
	require.True(t, resp.ShowQuickButtons)
	assert.Contains(t, resp.QuickButtons, pkg.QuickButton{Text: "Before Food", Value: "before food"})
	assert.Contains(t, resp.QuickButtons, pkg.QuickButton{Text: "Morning & Night", Value: "morning and night"})

	// Incomplete records are not stored.
	_, ok, _ := sessions.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestConfirmWithoutPendingIsIdempotent(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	resp := e.Turn(ctx, "s1", "Alice", "yes")
	assert.Equal(t, NoPendingSaveMessage, resp.Message)
	_, ok, _ := sessions.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestConfirmSavesAndClearsPending(t *testing.T) {
	records := &fakeRecords{}
	e, sessions := newTestEngine(records)
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	resp := e.Turn(ctx, "s1", "Alice", "yes")

	assert.Contains(t, resp.Message, "Final Saved Prescription")
	assert.Contains(t, resp.Message, SaveOKStatus)
	require.Len(t, records.rows, 1)
	row := records.rows[0]
	assert.Equal(t, &pkg.RecordRow{
		PatientName:     "Alice",
		Date:            testDate,
		MedicineName:    "Paracetamol",
		Duration:        "3 days",
		DurationUnit:    "days",
		Timing:          "Morning, Night",
		FoodTiming:      "before food",
		TimesPerDay:     2,
		TotalTablets:    6,
		RawPrescription: "take paracetamol 2 times a day for 3 days before food",
	}, row)

	_, ok, _ := sessions.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestSaveFailureKeepsPendingForRetry(t *testing.T) {
	records := &fakeRecords{err: errors.New("store unavailable")}
	e, sessions := newTestEngine(records)
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	resp := e.Turn(ctx, "s1", "Alice", "yes")
	assert.Contains(t, resp.Message, SaveFailStatusPrefix)
	assert.Contains(t, resp.Message, "store unavailable")
	assert.Contains(t, resp.Message, SaveRetryHint)

	_, ok, _ := sessions.Get(ctx, "s1")
	require.True(t, ok)

	// Retry succeeds once the store is back.
	records.err = nil
	resp = e.Turn(ctx, "s1", "Alice", "yes")
	assert.Contains(t, resp.Message, SaveOKStatus)
	require.Len(t, records.rows, 1)
	_, ok, _ = sessions.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestRejectOffersEditMenu(t *testing.T) {
	e, _ := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	resp := e.Turn(ctx, "s1", "Alice", "no")
	assert.Equal(t, EditChoiceMessage, resp.Message)
	require.Len(t, resp.QuickButtons, 4)
	assert.Equal(t, "medicine", resp.QuickButtons[0].Value)
}

func TestRejectWithoutPending(t *testing.T) {
	e, _ := newTestEngine(&fakeRecords{})
	resp := e.Turn(context.Background(), "s1", "Alice", "no")
	assert.Equal(t, NoPendingEditMessage, resp.Message)
}

func TestFieldSelectorShowsMenu(t *testing.T) {
	e, _ := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	resp := e.Turn(ctx, "s1", "Alice", "duration")
	assert.Equal(t, "Please select duration:", resp.Message)
	assert.Contains(t, resp.QuickButtons, pkg.QuickButton{Text: "5 days", Value: "Duration: 5 days"})
}

func TestEditRoundTripChangesOnlyDuration(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	before, _, _ := sessions.Get(ctx, "s1")

	resp := e.Turn(ctx, "s1", "Alice", "Duration: 5 days")
	assert.Contains(t, resp.Message, "Updated: Duration")

	after, ok, err := sessions.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, after.DurationValue)
	assert.Equal(t, pkg.UnitDays, after.DurationUnit)
	assert.Equal(t, 10, after.TotalTablets)
	// Everything else is untouched.
	assert.Equal(t, before.MedicineName, after.MedicineName)
	assert.Equal(t, before.Morning, after.Morning)
	assert.Equal(t, before.Afternoon, after.Afternoon)
	assert.Equal(t, before.Night, after.Night)
	assert.Equal(t, before.TimesPerDay, after.TimesPerDay)
	assert.Equal(t, before.FoodTiming, after.FoodTiming)
	assert.Equal(t, before.RawText, after.RawText)
}

func TestMultiFieldEdit(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	resp := e.Turn(ctx, "s1", "Alice", "Medicine: Dolo, Duration: 1 week")
	assert.Contains(t, resp.Message, "Updated: Medicine Name, Duration")

	rec, _, _ := sessions.Get(ctx, "s1")
	assert.Equal(t, "Dolo", rec.MedicineName)
	assert.Equal(t, 1, rec.DurationValue)
	assert.Equal(t, pkg.UnitWeeks, rec.DurationUnit)
	assert.Equal(t, 14, rec.TotalTablets)
}

func TestTimesPerDayEditDoesNotRederiveSlots(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	e.Turn(ctx, "s1", "Alice", "Times Per Day: 4")

	rec, _, _ := sessions.Get(ctx, "s1")
	assert.Equal(t, 4, rec.TimesPerDay)
	// Slots stay as they were; frequency is an independent signal.
	assert.True(t, rec.Morning)
	assert.False(t, rec.Afternoon)
	assert.True(t, rec.Night)
	assert.Equal(t, 12, rec.TotalTablets)
}

func TestTimingEditResetsAndRederives(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	resp := e.Turn(ctx, "s1", "Alice", "Timing: afternoon")
	assert.Contains(t, resp.Message, "Updated: Timing")

	rec, _, _ := sessions.Get(ctx, "s1")
	assert.False(t, rec.Morning)
	assert.True(t, rec.Afternoon)
	assert.False(t, rec.Night)
	assert.Equal(t, 1, rec.TimesPerDay)
	assert.Equal(t, 3, rec.TotalTablets)
}

func TestBareTimingReplacement(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	resp := e.Turn(ctx, "s1", "Alice", "morning, afternoon and night")
	assert.Contains(t, resp.Message, "Updated timing")

	rec, _, _ := sessions.Get(ctx, "s1")
	assert.True(t, rec.Morning)
	assert.True(t, rec.Afternoon)
	assert.True(t, rec.Night)
	assert.Equal(t, 3, rec.TimesPerDay)
	assert.Equal(t, 9, rec.TotalTablets)
}

func TestBareFoodTimingReplacement(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	resp := e.Turn(ctx, "s1", "Alice", "after food")
	assert.Contains(t, resp.Message, "Updated food timing")

	rec, _, _ := sessions.Get(ctx, "s1")
	assert.Equal(t, pkg.AfterFood, rec.FoodTiming)
}

func TestUnparseableEditLeavesRecordUntouched(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	before, _, _ := sessions.Get(ctx, "s1")

	resp := e.Turn(ctx, "s1", "Alice", "Dosage: 500mg")
	assert.Equal(t, EditFormatMessage, resp.Message)

	after, _, _ := sessions.Get(ctx, "s1")
	assert.Equal(t, before, after)
}

func TestUnrecognizedInputWithPending(t *testing.T) {
	e, _ := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	resp := e.Turn(ctx, "s1", "Alice", "thanks")
	assert.Equal(t, EditFormatMessage, resp.Message)
}

func TestSessionsAreIsolated(t *testing.T) {
	e, sessions := newTestEngine(&fakeRecords{})
	ctx := context.Background()

	e.Turn(ctx, "s1", "Alice", "take paracetamol 2 times a day for 3 days before food")
	resp := e.Turn(ctx, "s2", "Bob", "yes")
	assert.Equal(t, NoPendingSaveMessage, resp.Message)

	_, ok, _ := sessions.Get(ctx, "s1")
	assert.True(t, ok)
}

func TestMissingPatientNameDefaultsToUnknown(t *testing.T) {
	records := &fakeRecords{}
	e, _ := newTestEngine(records)
	ctx := context.Background()

	e.Turn(ctx, "s1", "", "take paracetamol 2 times a day for 3 days before food")
	e.Turn(ctx, "s1", "", "yes")
	require.Len(t, records.rows, 1)
	assert.Equal(t, "Unknown", records.rows[0].PatientName)
}
