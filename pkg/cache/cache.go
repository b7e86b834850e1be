// Package cache provides byte-oriented key/value storage for editor state.
//
// The editor keeps undo history and page snapshots in a [Cache] so that a
// session survives restarts. Three backends are available:
//
//   - [FileCache] stores entries as JSON files below a directory (CLI default)
//   - [RedisCache] stores entries in Redis (shared by server instances)
//   - [NullCache] stores nothing (persistence disabled)
//
// Keys are produced by a [Keyer] so that every component agrees on the
// layout of the key space.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores opaque values under string keys. A zero ttl means the entry
// never expires. Get reports a miss with ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// HistoryKeyPrefix prefixes the keys under which editor history is stored.
const HistoryKeyPrefix = "page-builder-history-"

// Keyer generates cache keys.
type Keyer interface {
	// HistoryKey is the key of the undo history of a page.
	HistoryKey(pageID string) string
	// PageKey is the key of the last saved snapshot of a page.
	PageKey(pageID string) string
	// RenderKey is the key of a rendered outline of a tree.
	RenderKey(treeHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts are the render options that change the rendered output.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	Viewport string `json:"viewport,omitempty"`
	Attrs    bool   `json:"attrs,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HistoryKey(pageID string) string { return HistoryKeyPrefix + pageID }
func (DefaultKeyer) PageKey(pageID string) string    { return "page:" + pageID }

func (DefaultKeyer) RenderKey(treeHash string, opts RenderKeyOpts) string {
	return hashKey("render", treeHash, opts)
}

// keyType classifies key for cache hooks.
func keyType(key string) string {
	if strings.HasPrefix(key, HistoryKeyPrefix) {
		return "history"
	}
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "other"
}
