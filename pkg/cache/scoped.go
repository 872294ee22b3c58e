package cache

// ScopedKeyer wraps a Keyer with a prefix so different walls or tenants get
// separate cache namespaces. Keys are content-addressed either way; scoping
// exists so a whole namespace can be dropped at once.
//
// Example usage:
//
//	// Keys private to one stored wall
//	wallKeyer := NewScopedKeyer(NewDefaultKeyer(), "wall:"+rec.ID+":")
//
//	// Global keys for ad-hoc computations
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for schedule caching.
func (k *ScopedKeyer) LayoutKey(paramsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(paramsHash, opts)
}

// AnchorKey generates a prefixed key for placement caching.
func (k *ScopedKeyer) AnchorKey(layoutHash string, opts AnchorKeyOpts) string {
	return k.prefix + k.inner.AnchorKey(layoutHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
