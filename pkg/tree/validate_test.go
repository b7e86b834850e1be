package tree

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	deep := func(levels int) Tree {
		var n Node = &Leaf{ID: "leaf", Type: TypeText}
		for i := levels; i > 0; i-- {
			n = &Container{ID: "c" + strings.Repeat("x", i), Type: TypeSection, Children: []Node{n}}
		}
		return Tree{n}
	}

	tests := []struct {
		name    string
		tree    Tree
		opts    ValidateOptions
		wantErr error
	}{
		{"valid", sample(), ValidateOptions{}, nil},
		{"empty", nil, ValidateOptions{}, nil},
		{"empty id", Tree{&Leaf{Type: TypeText}}, ValidateOptions{}, ErrEmptyID},
		{"duplicate", Tree{&Leaf{ID: "a", Type: TypeText}, &Leaf{ID: "a", Type: TypeText}}, ValidateOptions{}, ErrDuplicateID},
		{"unknown type", Tree{&Leaf{ID: "a", Type: "Marquee"}}, ValidateOptions{}, ErrUnknownType},
		{"unknown allowed", Tree{&Leaf{ID: "a", Type: "Marquee"}}, ValidateOptions{AllowUnknownTypes: true}, nil},
		{"children on leaf type", Tree{&Container{ID: "a", Type: TypeText}}, ValidateOptions{}, ErrChildrenNotAllowed},
		{"nil node", Tree{nil}, ValidateOptions{}, ErrNilNode},
		{"max depth ok", deep(MaxDepth), ValidateOptions{}, nil},
		{"too deep", deep(MaxDepth + 1), ValidateOptions{}, ErrTooDeep},
		{"depth unchecked", deep(MaxDepth + 1), ValidateOptions{MaxDepth: -1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tree, tt.opts)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	text := &Leaf{ID: "t", Type: TypeText}
	in := Tree{
		&Leaf{ID: "s", Type: TypeSection},
		text,
		&Container{ID: "c", Type: TypeCanvas, Children: []Node{&Leaf{ID: "m", Type: TypeMultiColumn}}},
	}
	out := Normalize(in, ValidateOptions{})

	if _, ok := out[0].(*Container); !ok {
		t.Errorf("out[0] = %T, want *Container", out[0])
	}
	if out[1] != text {
		t.Error("unchanged leaf should be shared")
	}
	inner := out[2].(*Container).Children[0]
	if _, ok := inner.(*Container); !ok {
		t.Errorf("nested MultiColumn = %T, want *Container", inner)
	}
	if _, ok := in[0].(*Leaf); !ok {
		t.Error("Normalize mutated its input")
	}

	same := sample()
	if got := Normalize(same, ValidateOptions{}); &got[0] != &same[0] {
		t.Error("Normalize of a clean tree should return the input slice")
	}
}

func TestCloneWithFreshIDs(t *testing.T) {
	gen := &SequenceIDs{Prefix: "n"}
	src := sample()[0]
	clone := CloneWithFreshIDs(src, gen)

	got := IDs(Tree{clone})
	want := []string{"n1", "n2", "n3", "n4"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("cloned ids = %v, want %v", got, want)
	}
	if FindByID(Tree{clone}, "sec") != nil {
		t.Error("clone kept an original id")
	}

	clone.(*Container).Children[0].NodeAttrs()["content"] = "changed"
	if v, _ := Attr(src.(*Container).Children[0], "content"); v != "hi" {
		t.Errorf("source attrs mutated through clone: %v", v)
	}
}

func TestUUIDv7Ordered(t *testing.T) {
	var gen UUIDv7
	a, b := gen.NewID(), gen.NewID()
	if a == b {
		t.Fatal("UUIDv7 produced duplicate ids")
	}
	if len(a) != 36 {
		t.Errorf("len(id) = %d, want 36", len(a))
	}
	if a > b {
		t.Errorf("ids not ordered: %s > %s", a, b)
	}
}
