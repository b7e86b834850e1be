package editor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagebuilder/pkg/cache"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Store persists page histories and saved page snapshots in a cache.
type Store struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL bounds how long an untouched history is kept. Zero keeps it
	// forever.
	TTL time.Duration
}

// NewStore creates a store on c.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (persistence disabled).
func NewStore(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Store {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{Cache: c, Keyer: keyer, Logger: logger}
}

// Key returns the cache key of the history of pageID.
func (s *Store) Key(pageID string) string { return s.Keyer.HistoryKey(pageID) }

// Load returns the stored history of pageID, or nil when none is stored.
func (s *Store) Load(ctx context.Context, pageID string) (*History, error) {
	data, ok, err := s.Cache.Get(ctx, s.Key(pageID))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "load history of %s", pageID)
	}
	if !ok {
		return nil, nil
	}
	return DecodeHistory(data)
}

// Save stores h as the history of pageID.
func (s *Store) Save(ctx context.Context, pageID string, h *History) error {
	data, err := h.Encode()
	if err != nil {
		return err
	}
	if err := s.Cache.Set(ctx, s.Key(pageID), data, s.TTL); err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "save history of %s", pageID)
	}
	s.Logger.Debug("history saved", "page", pageID, "bytes", len(data), "undo", len(h.Past), "redo", len(h.Future))
	return nil
}

// Clear removes the stored history of pageID.
func (s *Store) Clear(ctx context.Context, pageID string) error {
	if err := s.Cache.Delete(ctx, s.Key(pageID)); err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "clear history of %s", pageID)
	}
	return nil
}

// SavePage stores t as the saved version of pageID. Saved pages never
// expire.
func (s *Store) SavePage(ctx context.Context, pageID string, t tree.Tree) error {
	data, err := t.MarshalJSON()
	if err != nil {
		return err
	}
	if err := s.Cache.Set(ctx, s.Keyer.PageKey(pageID), data, 0); err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "save page %s", pageID)
	}
	return nil
}

// LoadPage returns the saved version of pageID, or nil when none is saved.
func (s *Store) LoadPage(ctx context.Context, pageID string) (tree.Tree, error) {
	data, ok, err := s.Cache.Get(ctx, s.Keyer.PageKey(pageID))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "load page %s", pageID)
	}
	if !ok {
		return nil, nil
	}
	var t tree.Tree
	if err := t.UnmarshalJSON(data); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidTree, err, "decode page %s", pageID)
	}
	return t, nil
}

// Exists reports whether a history or a saved version of pageID is stored.
func (s *Store) Exists(ctx context.Context, pageID string) (bool, error) {
	for _, key := range []string{s.Key(pageID), s.Keyer.PageKey(pageID)} {
		_, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			return false, perrors.Wrap(perrors.ErrCodeInternal, err, "look up page %s", pageID)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
