package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one cache backend serves several workspaces and
// their entries must not collide.
//
// Example usage:
//
//	// Workspace-specific keys for a shared Redis instance
//	wsKeyer := NewScopedKeyer(NewDefaultKeyer(), "ws:drafts:")
//
//	// Unscoped keys for a single-workspace CLI
//	keyer := NewDefaultKeyer()
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

// FeedKey generates a prefixed key for feed caching.
func (k *ScopedKeyer) FeedKey(workspace string, opts FeedKeyOpts) string {
	return k.prefix + k.inner.FeedKey(workspace, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(feedHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(feedHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
