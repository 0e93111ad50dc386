package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prescription-chatbot/pkg"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	rec := &pkg.PrescriptionRecord{MedicineName: "Paracetamol", TimesPerDay: 2}
	require.NoError(t, s.Put(ctx, "s1", rec))

	got, ok, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Paracetamol", got.MedicineName)

	// The stored record is insulated from caller mutations until Put.
	got.MedicineName = "Dolo"
	again, _, _ := s.Get(ctx, "s1")
	assert.Equal(t, "Paracetamol", again.MedicineName)

	require.NoError(t, s.Clear(ctx, "s1"))
	_, ok, _ = s.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestMemoryStoreClearAbsentSession(t *testing.T) {
	s := NewMemoryStore()
	assert.NoError(t, s.Clear(context.Background(), "nope"))
}

func TestMemoryStorePutReplaces(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "s1", &pkg.PrescriptionRecord{MedicineName: "A"}))
	require.NoError(t, s.Put(ctx, "s1", &pkg.PrescriptionRecord{MedicineName: "B"}))
	got, ok, _ := s.Get(ctx, "s1")
	require.True(t, ok)
	assert.Equal(t, "B", got.MedicineName)
}
