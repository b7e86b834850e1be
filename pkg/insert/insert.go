// Package insert turns placement requests into tree actions.
//
// An [Inserter] validates a request against a placement [rules.Table] and
// emits the actions that realise it: one [action.Add] for a palette item,
// one per template for a library drop, an [action.Move] (optionally followed
// by an [action.Update] stamping a tab slot) for a canvas move. A request
// the rules reject yields no actions and a rejection error carrying
// errors.ErrCodeInvalidPlacement.
//
// [TargetFor] computes the target of a click-to-insert request from the
// current selection or an explicit insertion marker.
package insert

import (
	"strconv"

	"github.com/matzehuels/pagebuilder/pkg/action"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/rules"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Target is a resolved insertion point.
type Target struct {
	ParentID string `json:"parentId,omitempty" yaml:"parent,omitempty"`
	Index    int    `json:"index" yaml:"index"`
	// Tab is the tab last hovered inside ParentID, if any. It is stamped as
	// slotKey on inserted or moved nodes when ParentID is a tabbed container.
	Tab *int `json:"tab,omitempty" yaml:"tab,omitempty"`
}

// Outcome is the result of a placement request. Exactly one of Actions and
// Rejected is set.
type Outcome struct {
	Actions  []action.Action
	Select   string
	Rejected error
	Announce string
}

// OK reports whether the request was accepted.
func (o Outcome) OK() bool { return o.Rejected == nil }

// Rejection returns the user-facing rejection message, or "".
func (o Outcome) Rejection() string { return perrors.UserMessage(o.Rejected) }

func rejected(err error) Outcome {
	return Outcome{Rejected: err, Announce: perrors.UserMessage(err)}
}

// Inserter emits placement actions.
type Inserter struct {
	Rules    *rules.Table
	IDs      tree.IDGenerator
	Defaults map[tree.Type]tree.Attrs
}

// New returns an inserter. A nil table uses [rules.Default]; a nil id
// generator uses [tree.UUIDv7].
func New(table *rules.Table, ids tree.IDGenerator, defaults map[tree.Type]tree.Attrs) *Inserter {
	if table == nil {
		table = rules.Default()
	}
	if ids == nil {
		ids = tree.UUIDv7{}
	}
	return &Inserter{Rules: table, IDs: ids, Defaults: defaults}
}

// NewNode instantiates a node of type typ with a fresh id and a copy of the
// type's defaults. Container types get an empty children list.
func (in *Inserter) NewNode(typ tree.Type) tree.Node {
	attrs := in.Defaults[typ].Clone()
	for k := range attrs {
		if tree.IsReserved(k) {
			delete(attrs, k)
		}
	}
	if in.Rules.IsContainer(typ) {
		return &tree.Container{ID: in.IDs.NewID(), Type: typ, Attrs: attrs, Children: []tree.Node{}}
	}
	return &tree.Leaf{ID: in.IDs.NewID(), Type: typ, Attrs: attrs}
}

// parentKind resolves the rule kind of target.ParentID. A parent that does
// not exist is an error here: a drop must land somewhere real.
func parentKind(t tree.Tree, parentID string) (tree.ParentKind, error) {
	kind, ok := tree.ResolveParentKind(t, parentID)
	if !ok {
		return "", perrors.New(perrors.ErrCodeNotFound, "Parent %s not found", parentID)
	}
	return kind, nil
}

// slotKey returns the slot to stamp for target, or "" when the target is not
// a tabbed container or no tab was hovered.
func (in *Inserter) slotKey(t tree.Tree, target Target) string {
	if target.ParentID == "" || target.Tab == nil {
		return ""
	}
	typ, ok := tree.TypeOf(t, target.ParentID)
	if !ok || !in.Rules.IsTabbed(typ) {
		return ""
	}
	return strconv.Itoa(*target.Tab)
}

func stamp(n tree.Node, slot string) tree.Node {
	if slot == "" {
		return n
	}
	attrs := n.NodeAttrs().Clone()
	attrs[tree.AttrSlotKey] = slot
	return tree.WithAttrs(n, attrs)
}

func placementError(kind tree.ParentKind, typ tree.Type, verb string) error {
	return perrors.Wrap(perrors.ErrCodeInvalidPlacement, &rules.PlacementError{Parent: kind, Child: typ},
		"Cannot %s %s here", verb, typ)
}

// Palette places a new node of type typ at target.
func (in *Inserter) Palette(t tree.Tree, typ tree.Type, target Target) Outcome {
	if !typ.Valid() {
		return rejected(perrors.New(perrors.ErrCodeInvalidInput, "Unknown component type %q", typ))
	}
	kind, err := parentKind(t, target.ParentID)
	if err != nil {
		return rejected(err)
	}
	if !in.Rules.CanDropChild(kind, typ) {
		return rejected(placementError(kind, typ, "place"))
	}

	n := stamp(in.NewNode(typ), in.slotKey(t, target))
	return Outcome{
		Actions: []action.Action{action.Add{Component: n, ParentID: target.ParentID, Index: target.Index}},
		Select:  n.NodeID(),
	}
}

// Library clones templates with fresh ids at every level and places the
// clones at consecutive indices starting at target.Index. The first clone
// the rules reject rejects the whole batch.
func (in *Inserter) Library(t tree.Tree, templates []tree.Node, target Target) Outcome {
	if len(templates) == 0 {
		return rejected(perrors.New(perrors.ErrCodeInvalidInput, "Nothing to insert"))
	}
	kind, err := parentKind(t, target.ParentID)
	if err != nil {
		return rejected(err)
	}

	slot := in.slotKey(t, target)
	clones := make([]tree.Node, 0, len(templates))
	for _, tpl := range templates {
		if tpl == nil {
			return rejected(perrors.New(perrors.ErrCodeInvalidInput, "Template is empty"))
		}
		c := tree.CloneWithFreshIDs(tpl, in.IDs)
		if !in.Rules.CanDropChild(kind, c.NodeType()) {
			return rejected(placementError(kind, c.NodeType(), "place"))
		}
		clones = append(clones, stamp(c, slot))
	}

	actions := make([]action.Action, 0, len(clones))
	for i, c := range clones {
		actions = append(actions, action.Add{Component: c, ParentID: target.ParentID, Index: target.Index + i})
	}
	return Outcome{Actions: actions, Select: clones[0].NodeID()}
}

// Source describes an existing node being moved: its id, its location at
// drag start, and an optional type hint used when the id no longer
// resolves.
type Source struct {
	ID       string    `json:"id" yaml:"id"`
	ParentID string    `json:"parentId,omitempty" yaml:"parent,omitempty"`
	Index    int       `json:"index" yaml:"index"`
	Type     tree.Type `json:"type,omitempty" yaml:"type,omitempty"`
}

// Move relocates src to target. When source and destination share a parent
// and the source precedes the destination, the destination index is
// decremented to account for the removal.
func (in *Inserter) Move(t tree.Tree, src Source, target Target) Outcome {
	node := tree.FindByID(t, src.ID)
	typ := src.Type
	if node != nil {
		typ = node.NodeType()
	}
	if typ == "" {
		return rejected(perrors.New(perrors.ErrCodeNotFound, "Component %s not found", src.ID))
	}
	kind, err := parentKind(t, target.ParentID)
	if err != nil {
		return rejected(err)
	}
	if !in.Rules.CanDropChild(kind, typ) {
		return rejected(placementError(kind, typ, "move"))
	}
	if node != nil && target.ParentID != "" && tree.Contains(node, target.ParentID) {
		return rejected(perrors.Wrap(perrors.ErrCodeInvalidPlacement, action.ErrMoveIntoSelf, "Cannot move %s into itself", typ))
	}

	to := target.Index
	if src.ParentID == target.ParentID && src.Index < to {
		to--
	}
	out := Outcome{Actions: []action.Action{action.Move{
		From: action.Location{ParentID: src.ParentID, Index: src.Index},
		To:   action.Location{ParentID: target.ParentID, Index: to},
	}}}
	if slot := in.slotKey(t, target); slot != "" {
		out.Actions = append(out.Actions, action.Update{ID: src.ID, Patch: tree.Attrs{tree.AttrSlotKey: slot}})
		out.Announce = "Moved to tab " + strconv.Itoa(*target.Tab+1)
	}
	return out
}
