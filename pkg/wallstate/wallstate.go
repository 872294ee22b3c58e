// Package wallstate persists named walls together with their accumulated
// edits and anchored objects.
//
// This package defines the Store interface for wall persistence, with
// implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI applications
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage with TTL expiration
//
// # Snapshot semantics
//
// Stores hand out deep copies. A record returned by Get is the caller's to
// mutate; nothing written to the store changes until Set. Mutating
// operations should go through Update, which applies a function to a copy
// and writes back only on success, so a failed edit never leaves a record
// half-changed.
//
// # Usage
//
// Create a store:
//
//	// Development
//	store := wallstate.NewMemoryStore()
//
//	// CLI
//	store, err := wallstate.NewFileStore("")  // Uses ~/.config/panelplan/walls/
//
//	// Production
//	store, err := wallstate.NewRedisStore(ctx, "redis://localhost:6379", 0)
//
// Manage walls:
//
//	rec := wallstate.New("living room north", params)
//	if err := store.Set(ctx, rec); err != nil {
//	    return err
//	}
//
//	rec, err = wallstate.Update(ctx, store, rec.ID, func(r *wallstate.Record) error {
//	    sched, err := layout.Compute(r.Params, r.Edits)
//	    if err != nil {
//	        return err
//	    }
//	    _, _, err = layout.Split(sched.Panels, selected, r.Params, &r.Edits)
//	    return err
//	})
package wallstate

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wrightline/panelplan/pkg/wall"
)

// Sentinel errors for wall storage.
var (
	// ErrNotFound is returned when a wall record does not exist.
	ErrNotFound = errors.New("wall not found")

	// ErrExpired is returned when a wall record has exceeded its TTL.
	ErrExpired = errors.New("wall expired")
)

// Record stores a wall's parameters together with its accumulated edits and
// anchored objects. The parameters plus the edits fully determine the panel
// schedule, so the record never stores computed panels.
type Record struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name" bson:"name"`
	Params    wall.Parameters `json:"params" bson:"params"`
	Edits     wall.Edits      `json:"edits" bson:"edits"`
	Objects   []wall.Object   `json:"objects,omitempty" bson:"objects,omitempty"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

// New creates a record for a named wall. The record never expires unless
// the caller sets ExpiresAt.
func New(name string, params wall.Parameters) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        uuid.NewString(),
		Name:      name,
		Params:    params,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsExpired returns true if the record has an expiration and it has passed.
func (r *Record) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}

// Clone returns a deep copy. Mutating the copy's edits or objects leaves
// the original untouched.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Edits = r.Edits.Clone()
	if r.Objects != nil {
		out.Objects = make([]wall.Object, len(r.Objects))
		for i, obj := range r.Objects {
			obj.AffectedPanels = slices.Clone(obj.AffectedPanels)
			out.Objects[i] = obj
		}
	}
	return &out
}

// Store is the interface for wall storage backends.
type Store interface {
	// Get retrieves a record by ID.
	// Returns nil, nil if the record doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Record, error)

	// Set stores a record, replacing any existing record with the same ID.
	Set(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all live records sorted by name.
	List(ctx context.Context) ([]*Record, error)

	// Cleanup removes expired records (optional, may be no-op for backends
	// with native TTLs).
	Cleanup(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Update applies fn to a copy of the record and writes the copy back only
// if fn succeeds. On any error the stored record is untouched. Returns the
// updated record.
func Update(ctx context.Context, s Store, id string, fn func(*Record) error) (*Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if err := fn(rec); err != nil {
		return nil, err
	}
	rec.UpdatedAt = time.Now().UTC()
	if err := s.Set(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// sortRecords orders records by name (case-insensitive) with the ID as a
// tie-break, so listings are stable across backends.
func sortRecords(recs []*Record) {
	slices.SortFunc(recs, func(a, b *Record) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
