package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Well-known attribute keys.
const (
	AttrHidden  = "hidden"  // bool: hidden on every viewport unless editor flags say otherwise
	AttrSlotKey = "slotKey" // string: tab index of a node nested in a tabbed container
)

// Reserved keys are structural and never stored in [Attrs].
const (
	keyID       = "id"
	keyType     = "type"
	keyChildren = "children"
)

// Attrs is the open, type-specific attribute bag of a node.
type Attrs map[string]any

// Clone returns a shallow copy of a. A nil bag clones to an empty bag.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return Attrs{}
	}
	return maps.Clone(a)
}

// IsReserved reports whether key names a structural field (id, type,
// children) that must never be written through the attribute bag.
func IsReserved(key string) bool {
	return key == keyID || key == keyType || key == keyChildren
}

// Node is a block in the component tree. It is implemented by exactly two
// variants, *[Leaf] and *[Container].
//
// Trees are treated as immutable snapshots: code that needs a changed node
// builds a new one instead of mutating a node reachable from a snapshot.
type Node interface {
	NodeID() string
	NodeType() Type
	NodeAttrs() Attrs
	isNode()
}

// Leaf is a node that cannot own children.
type Leaf struct {
	ID    string
	Type  Type
	Attrs Attrs
}

// Container is a node that owns an ordered, possibly empty, list of children.
type Container struct {
	ID       string
	Type     Type
	Attrs    Attrs
	Children []Node
}

func (n *Leaf) NodeID() string   { return n.ID }
func (n *Leaf) NodeType() Type   { return n.Type }
func (n *Leaf) NodeAttrs() Attrs { return n.Attrs }
func (*Leaf) isNode()            {}

func (n *Container) NodeID() string   { return n.ID }
func (n *Container) NodeType() Type   { return n.Type }
func (n *Container) NodeAttrs() Attrs { return n.Attrs }
func (*Container) isNode()            {}

// IsContainer reports whether n is a container, regardless of how many
// children it currently holds.
func IsContainer(n Node) bool {
	_, ok := n.(*Container)
	return ok
}

// Children returns the children of n, or nil for leaves.
func Children(n Node) []Node {
	if c, ok := n.(*Container); ok {
		return c.Children
	}
	return nil
}

// Attr returns the attribute value stored under key, if any.
func Attr(n Node, key string) (any, bool) {
	v, ok := n.NodeAttrs()[key]
	return v, ok
}

// WithAttrs returns a shallow copy of n carrying attrs. Children are shared.
func WithAttrs(n Node, attrs Attrs) Node {
	switch v := n.(type) {
	case *Leaf:
		return &Leaf{ID: v.ID, Type: v.Type, Attrs: attrs}
	case *Container:
		return &Container{ID: v.ID, Type: v.Type, Attrs: attrs, Children: v.Children}
	}
	return n
}

// WithChildren returns a shallow copy of c owning children.
func WithChildren(c *Container, children []Node) *Container {
	return &Container{ID: c.ID, Type: c.Type, Attrs: c.Attrs, Children: children}
}

// =============================================================================
// JSON
// =============================================================================

// MarshalJSON encodes a leaf as a flat object without a "children" key.
func (n *Leaf) MarshalJSON() ([]byte, error) {
	return marshalFlat(n.ID, n.Type, n.Attrs, nil, false)
}

// MarshalJSON encodes a container as a flat object. The "children" key is
// always present, as [] when the container is empty.
func (n *Container) MarshalJSON() ([]byte, error) {
	children := n.Children
	if children == nil {
		children = []Node{}
	}
	return marshalFlat(n.ID, n.Type, n.Attrs, children, true)
}

func marshalFlat(id string, typ Type, attrs Attrs, children []Node, container bool) ([]byte, error) {
	obj := make(map[string]any, len(attrs)+3)
	for k, v := range attrs {
		if IsReserved(k) {
			continue
		}
		obj[k] = v
	}
	obj[keyID] = id
	obj[keyType] = typ
	if container {
		obj[keyChildren] = children
	}
	return json.Marshal(obj)
}

// UnmarshalJSON decodes a leaf. It rejects objects carrying "children".
func (n *Leaf) UnmarshalJSON(data []byte) error {
	node, err := DecodeNode(data)
	if err != nil {
		return err
	}
	leaf, ok := node.(*Leaf)
	if !ok {
		return fmt.Errorf("node %s: %w", node.NodeID(), ErrNotLeaf)
	}
	*n = *leaf
	return nil
}

// UnmarshalJSON decodes a container. It rejects objects without "children".
func (n *Container) UnmarshalJSON(data []byte) error {
	node, err := DecodeNode(data)
	if err != nil {
		return err
	}
	c, ok := node.(*Container)
	if !ok {
		return fmt.Errorf("node %s: %w", node.NodeID(), ErrNotContainer)
	}
	*n = *c
	return nil
}

// DecodeNode decodes a single JSON node, choosing the variant from the
// presence of the "children" key.
func DecodeNode(data []byte) (Node, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode node: %w", ErrNullNode)
	}

	var id string
	if v, ok := raw[keyID]; ok {
		if err := json.Unmarshal(v, &id); err != nil {
			return nil, fmt.Errorf("decode node id: %w", err)
		}
	}
	var typ Type
	if v, ok := raw[keyType]; ok {
		if err := json.Unmarshal(v, &typ); err != nil {
			return nil, fmt.Errorf("node %s: decode type: %w", id, err)
		}
	}

	attrs := Attrs{}
	for k, v := range raw {
		if IsReserved(k) {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, fmt.Errorf("node %s: decode %s: %w", id, k, err)
		}
		attrs[k] = val
	}

	rawChildren, container := raw[keyChildren]
	if !container {
		return &Leaf{ID: id, Type: typ, Attrs: attrs}, nil
	}
	if bytes.Equal(bytes.TrimSpace(rawChildren), []byte("null")) {
		return &Container{ID: id, Type: typ, Attrs: attrs, Children: []Node{}}, nil
	}
	children, err := decodeNodes(rawChildren)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", id, err)
	}
	return &Container{ID: id, Type: typ, Attrs: attrs, Children: children}, nil
}

func decodeNodes(data []byte) ([]Node, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode children: %w", err)
	}
	nodes := make([]Node, 0, len(raws))
	for _, r := range raws {
		n, err := DecodeNode(r)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Tree is the ordered list of top-level nodes of a page.
type Tree []Node

// MarshalJSON encodes a nil tree as [].
func (t Tree) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Node(t))
}

// UnmarshalJSON decodes a list of nodes.
func (t *Tree) UnmarshalJSON(data []byte) error {
	nodes, err := decodeNodes(data)
	if err != nil {
		return err
	}
	*t = nodes
	return nil
}
