package tree

import "testing"

func TestIsHiddenForViewport(t *testing.T) {
	attrHidden := &Leaf{ID: "a", Type: TypeText, Attrs: Attrs{AttrHidden: true}}
	plain := &Leaf{ID: "b", Type: TypeText, Attrs: Attrs{}}
	flags := EditorFlags{
		"a": {Hidden: []Viewport{}},
		"b": {Hidden: []Viewport{ViewportMobile}},
	}

	tests := []struct {
		name  string
		node  Node
		flags EditorFlags
		vp    Viewport
		want  bool
	}{
		{"attribute only", attrHidden, nil, ViewportDesktop, true},
		{"plain visible", plain, nil, ViewportMobile, false},
		{"flags override attribute", attrHidden, flags, ViewportDesktop, false},
		{"flag hides on mobile", plain, flags, ViewportMobile, true},
		{"flag keeps desktop", plain, flags, ViewportDesktop, false},
		{"no viewport uses attribute", attrHidden, flags, "", true},
		{"nil node", nil, flags, ViewportMobile, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHiddenForViewport(tt.node, tt.flags, tt.vp); got != tt.want {
				t.Errorf("IsHiddenForViewport() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnderlyingIndex(t *testing.T) {
	list := []Node{
		&Leaf{ID: "a", Type: TypeText},
		&Leaf{ID: "h", Type: TypeText, Attrs: Attrs{AttrHidden: true}},
		&Leaf{ID: "b", Type: TypeText},
		&Leaf{ID: "c", Type: TypeText},
	}
	if got := len(Visible(list, nil, "")); got != 3 {
		t.Fatalf("len(Visible) = %d, want 3", got)
	}

	tests := []struct {
		visible int
		want    int
	}{
		{-1, 0},
		{0, 0},
		{1, 2},
		{2, 3},
		{3, 4},
		{10, 4},
	}
	for _, tt := range tests {
		if got := UnderlyingIndex(list, nil, "", tt.visible); got != tt.want {
			t.Errorf("UnderlyingIndex(%d) = %d, want %d", tt.visible, got, tt.want)
		}
	}
}
