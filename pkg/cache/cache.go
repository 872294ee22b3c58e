// Package cache provides caching for computed panel schedules and anchor
// placements. Keys are content-addressed: they hash every input that affects
// the result, so a hit is always safe to reuse and entries never need
// explicit invalidation.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface for computed results.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// TTLs for each compute stage. Keys are content-addressed, so these bound
// how long unused entries linger rather than how long results stay valid.
const (
	// TTLLayout applies to computed panel schedules.
	TTLLayout = 24 * time.Hour

	// TTLAnchor applies to resolved object placements.
	TTLAnchor = 24 * time.Hour
)

// Keyer generates cache keys for compute stages.
type Keyer interface {
	// LayoutKey generates a key for a computed schedule.
	// paramsHash is the content hash of the wall parameters.
	LayoutKey(paramsHash string, opts LayoutKeyOpts) string

	// AnchorKey generates a key for a resolved placement.
	// layoutHash is the content hash of the schedule being anchored against.
	AnchorKey(layoutHash string, opts AnchorKeyOpts) string
}

// LayoutKeyOpts captures the inputs beyond the wall parameters that affect
// schedule computation.
type LayoutKeyOpts struct {
	// EditsHash is the content hash of the wall's overrides and splits.
	EditsHash string `json:"edits_hash,omitempty"`
}

// AnchorKeyOpts captures the inputs beyond the schedule that affect object
// placement.
type AnchorKeyOpts struct {
	// SpecHash is the content hash of the anchor specification.
	SpecHash string `json:"spec_hash,omitempty"`
}

// DefaultKeyer generates unscoped keys. Suitable for the CLI and for
// single-tenant servers; wrap it in a ScopedKeyer for per-wall namespaces.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a computed schedule.
func (k *DefaultKeyer) LayoutKey(paramsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", paramsHash, opts)
}

// AnchorKey generates a key for a resolved placement.
func (k *DefaultKeyer) AnchorKey(layoutHash string, opts AnchorKeyOpts) string {
	return hashKey("anchor", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
