package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, so that
// several editors can share one Redis instance.
//
// Example usage:
//
//	// Keys of the staging workspace
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// HistoryKey generates a prefixed history key.
func (k *ScopedKeyer) HistoryKey(pageID string) string {
	return k.prefix + k.inner.HistoryKey(pageID)
}

// PageKey generates a prefixed page snapshot key.
func (k *ScopedKeyer) PageKey(pageID string) string {
	return k.prefix + k.inner.PageKey(pageID)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(treeHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(treeHash, opts)
}
