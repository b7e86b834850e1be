package tree

// CloneWithFreshIDs returns a deep copy of n in which every node, at every
// level, carries a new id from gen.
func CloneWithFreshIDs(n Node, gen IDGenerator) Node {
	switch v := n.(type) {
	case *Leaf:
		return &Leaf{ID: gen.NewID(), Type: v.Type, Attrs: v.Attrs.Clone()}
	case *Container:
		id := gen.NewID()
		children := make([]Node, 0, len(v.Children))
		for _, c := range v.Children {
			if c == nil {
				continue
			}
			children = append(children, CloneWithFreshIDs(c, gen))
		}
		return &Container{ID: id, Type: v.Type, Attrs: v.Attrs.Clone(), Children: children}
	}
	return nil
}

// NewLeaf returns a leaf of type typ with a copy of attrs.
func NewLeaf(id string, typ Type, attrs Attrs) *Leaf {
	return &Leaf{ID: id, Type: typ, Attrs: attrs.Clone()}
}

// NewContainer returns an empty container of type typ with a copy of attrs.
func NewContainer(id string, typ Type, attrs Attrs) *Container {
	return &Container{ID: id, Type: typ, Attrs: attrs.Clone(), Children: []Node{}}
}
