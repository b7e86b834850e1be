package tree

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces node ids that are unique within a tree.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a function to [IDGenerator].
type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

// UUIDv7 generates RFC 9562 version 7 UUIDs. Their string form sorts by
// creation time.
type UUIDv7 struct{}

// NewID returns a new version 7 UUID, falling back to a random version 4
// UUID if the clock source fails.
func (UUIDv7) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SequenceIDs generates deterministic ids of the form "<Prefix><n>",
// starting at 1. It is safe for concurrent use.
type SequenceIDs struct {
	Prefix string
	n      atomic.Int64
}

// NewID returns the next id in the sequence.
func (s *SequenceIDs) NewID() string {
	return fmt.Sprintf("%s%d", s.Prefix, s.n.Add(1))
}
