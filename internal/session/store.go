// Package session stores the per-session pending prescription.  The
// conversation engine depends only on the Store interface and never
// assumes a specific backend.
package session

import (
	"context"

	"prescription-chatbot/pkg"
)

// Store holds at most one pending prescription per session.
type Store interface {
	// Get returns the pending record for a session.  ok=false means the
	// session has no pending record.
	Get(ctx context.Context, sessionID string) (*pkg.PrescriptionRecord, bool, error)
	// Put stores (or replaces) the pending record for a session.
	Put(ctx context.Context, sessionID string, rec *pkg.PrescriptionRecord) error
	// Clear removes the pending record for a session.  Clearing an
	// absent session is not an error.
	Clear(ctx context.Context, sessionID string) error
}
