// Package visitorstore persists visitor pass records. Two implementations
// exist: a GORM/Postgres store used by the service, and an in-memory store
// used by tests.
package visitorstore

import (
	"context"
	"errors"
	"time"

	"visitor-pass/models/visitor"
)

var (
	// ErrNotFound is returned when no record exists for the given uid.
	ErrNotFound = errors.New("visitor not found")
)

// passNumberRetries bounds regeneration when a freshly generated pass number
// collides with a persisted one.
const passNumberRetries = 5

// Store is the persistence contract for visitor records.
type Store interface {
	// Create assigns uid, pass number, pending status and issued-at, then
	// persists the record. The pass number is unique among live records;
	// collisions are regenerated internally.
	Create(ctx context.Context, v *visitor.Visitor) error

	// GetByUID returns the record for uid, or ErrNotFound.
	GetByUID(ctx context.Context, uid string) (*visitor.Visitor, error)

	// ListAll returns every record ordered by issued-at descending.
	ListAll(ctx context.Context) ([]visitor.Visitor, error)

	// ListByStatus returns records with the given status, issued-at descending.
	ListByStatus(ctx context.Context, status visitor.Status) ([]visitor.Visitor, error)

	// SetStatusIfPending atomically moves the record from pending to the
	// given terminal status. It reports false, without error, when the
	// record was no longer pending; concurrent callers therefore observe
	// exactly one successful transition. Unknown uids return ErrNotFound.
	SetStatusIfPending(ctx context.Context, uid string, to visitor.Status) (bool, error)

	// DeleteOlderThan removes records issued strictly before cutoff and
	// returns the number removed. Idempotent.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
