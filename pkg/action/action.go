// Package action defines the tree mutations of the page builder and the
// reducer that applies them.
//
// Actions are the only way a page tree changes. There are four:
//
//   - [Add] inserts a new node (and its subtree) at a parent and index
//   - [Move] relocates the node at one location to another
//   - [Update] merges attributes into a node
//   - [Delete] removes a node and its subtree
//
// [Apply] never mutates its input. It returns a new tree that shares every
// subtree the action did not touch. A failed action returns the input tree
// unchanged together with an error carrying an errors.Code.
package action

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Location addresses a slot in a tree: a parent ("" for the top level) and
// an index into its children.
type Location = tree.Location

// Kind names an action variant on the wire.
type Kind string

// Action kinds.
const (
	KindAdd    Kind = "add"
	KindMove   Kind = "move"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Action is a tree mutation. It is implemented by [Add], [Move], [Update]
// and [Delete].
type Action interface {
	Kind() Kind
	isAction()
}

// Add inserts Component at Index among the children of ParentID. The index
// is clamped into [0, len(children)].
type Add struct {
	Component tree.Node
	ParentID  string
	Index     int
}

// Move removes the node at From and inserts it at To. To.Index is
// interpreted against the sibling list after the removal.
type Move struct {
	From Location
	To   Location
}

// Update merges Patch into the attributes of node ID. Structural keys are
// ignored; a nil value removes the attribute.
type Update struct {
	ID    string
	Patch tree.Attrs
}

// Delete removes node ID and its subtree.
type Delete struct {
	ID string
}

func (Add) Kind() Kind    { return KindAdd }
func (Move) Kind() Kind   { return KindMove }
func (Update) Kind() Kind { return KindUpdate }
func (Delete) Kind() Kind { return KindDelete }

func (Add) isAction()    {}
func (Move) isAction()   {}
func (Update) isAction() {}
func (Delete) isAction() {}

// String returns a short human-readable description.
func (a Add) String() string {
	id, typ := "", tree.Type("")
	if a.Component != nil {
		id, typ = a.Component.NodeID(), a.Component.NodeType()
	}
	return fmt.Sprintf("add %s %s at %s[%d]", typ, id, parentName(a.ParentID), a.Index)
}

func (m Move) String() string {
	return fmt.Sprintf("move %s[%d] -> %s[%d]", parentName(m.From.ParentID), m.From.Index, parentName(m.To.ParentID), m.To.Index)
}

func (u Update) String() string { return fmt.Sprintf("update %s (%d keys)", u.ID, len(u.Patch)) }
func (d Delete) String() string { return fmt.Sprintf("delete %s", d.ID) }

func parentName(id string) string {
	if id == "" {
		return "root"
	}
	return id
}

// =============================================================================
// JSON
// =============================================================================

type addJSON struct {
	Type      Kind            `json:"type"`
	Component json.RawMessage `json:"component"`
	ParentID  string          `json:"parentId,omitempty"`
	Index     int             `json:"index"`
}

type moveJSON struct {
	Type Kind     `json:"type"`
	From Location `json:"from"`
	To   Location `json:"to"`
}

type updateJSON struct {
	Type  Kind       `json:"type"`
	ID    string     `json:"id"`
	Patch tree.Attrs `json:"patch"`
}

type deleteJSON struct {
	Type Kind   `json:"type"`
	ID   string `json:"id"`
}

func (a Add) MarshalJSON() ([]byte, error) {
	var comp json.RawMessage = []byte("null")
	if a.Component != nil {
		b, err := json.Marshal(a.Component)
		if err != nil {
			return nil, err
		}
		comp = b
	}
	return json.Marshal(addJSON{Type: KindAdd, Component: comp, ParentID: a.ParentID, Index: a.Index})
}

func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal(moveJSON{Type: KindMove, From: m.From, To: m.To})
}

func (u Update) MarshalJSON() ([]byte, error) {
	patch := u.Patch
	if patch == nil {
		patch = tree.Attrs{}
	}
	return json.Marshal(updateJSON{Type: KindUpdate, ID: u.ID, Patch: patch})
}

func (d Delete) MarshalJSON() ([]byte, error) {
	return json.Marshal(deleteJSON{Type: KindDelete, ID: d.ID})
}

// Decode decodes a single action, dispatching on its "type" field.
func Decode(data []byte) (Action, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	switch head.Type {
	case KindAdd:
		var v addJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode add: %w", err)
		}
		n, err := tree.DecodeNode(v.Component)
		if err != nil {
			return nil, fmt.Errorf("decode add: %w", err)
		}
		return Add{Component: n, ParentID: v.ParentID, Index: v.Index}, nil
	case KindMove:
		var v moveJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode move: %w", err)
		}
		return Move{From: v.From, To: v.To}, nil
	case KindUpdate:
		var v updateJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode update: %w", err)
		}
		return Update{ID: v.ID, Patch: v.Patch}, nil
	case KindDelete:
		var v deleteJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode delete: %w", err)
		}
		return Delete{ID: v.ID}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownKind, head.Type)
}

// List is an ordered batch of actions with a JSON array encoding.
type List []Action

// UnmarshalJSON decodes each element with [Decode].
func (l *List) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("decode actions: %w", err)
	}
	out := make(List, 0, len(raws))
	for i, r := range raws {
		a, err := Decode(r)
		if err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		out = append(out, a)
	}
	*l = out
	return nil
}

// MarshalJSON encodes a nil list as [].
func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Action(l))
}
