package dnd

import (
	"testing"

	"github.com/matzehuels/pagebuilder/pkg/autoscroll"
	"github.com/matzehuels/pagebuilder/pkg/geom"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// page builds:
//
//	p (Section)
//	  a (Text)
//	  h (Text, hidden)
//	  b (Text)
//	s2 (Section)
//	  t (Tabs)
//	    x (Button)
func page() tree.Tree {
	return tree.Tree{
		&tree.Container{ID: "p", Type: tree.TypeSection, Children: []tree.Node{
			&tree.Leaf{ID: "a", Type: tree.TypeText},
			&tree.Leaf{ID: "h", Type: tree.TypeText, Attrs: tree.Attrs{tree.AttrHidden: true}},
			&tree.Leaf{ID: "b", Type: tree.TypeText},
		}},
		&tree.Container{ID: "s2", Type: tree.TypeSection, Children: []tree.Node{
			&tree.Container{ID: "t", Type: tree.TypeTabs, Children: []tree.Node{
				&tree.Leaf{ID: "x", Type: tree.TypeButton},
			}},
		}},
	}
}

type recordingViewport struct {
	bounds geom.Rect
	calls  int
	dx, dy float64
}

func (v *recordingViewport) Bounds() (geom.Rect, bool) { return v.bounds, true }

func (v *recordingViewport) ScrollBy(dx, dy float64) error {
	v.calls++
	v.dx, v.dy = dx, dy
	return nil
}

func newMachine(vp autoscroll.Viewport) *Machine {
	return NewMachine(Options{
		IDs:        &tree.SequenceIDs{Prefix: "n"},
		GridSize:   10,
		Autoscroll: autoscroll.New(autoscroll.DefaultConfig(), nil),
		Viewport:   vp,
	})
}

func intp(i int) *int       { return &i }
func strp(s string) *string { return &s }

func boolString(b *bool) string {
	if b == nil {
		return "nil"
	}
	if *b {
		return "true"
	}
	return "false"
}

func mustDragging(t *testing.T, s State) *Dragging {
	t.Helper()
	d, ok := s.(*Dragging)
	if !ok {
		t.Fatalf("state = %T, want *Dragging", s)
	}
	return d
}

func TestStartEntersDragging(t *testing.T) {
	m := newMachine(nil)
	d := mustDragging(t, m.Start(Payload{From: FromPalette, Type: tree.TypeText}))
	if d.InsertIndex != nil || d.DropAllowed != nil || d.SnapX != nil || d.HoverID != "" {
		t.Errorf("fresh session carries state: %+v", d)
	}
}

func TestMoveIgnoredWhenIdle(t *testing.T) {
	m := newMachine(nil)
	if s := m.Move(Idle{}, page(), MoveEvent{}); s != (Idle{}) {
		t.Errorf("Move(Idle) = %#v, want Idle", s)
	}
}

func TestMoveSnapsPointer(t *testing.T) {
	m := newMachine(nil)
	canvas := geom.Rect{Left: 100, Top: 50, Width: 800, Height: 2000}
	s := m.Start(Payload{From: FromPalette, Type: tree.TypeSection})
	d := mustDragging(t, m.Move(s, page(), MoveEvent{
		Activator: geom.Point{X: 110, Y: 60},
		Delta:     geom.Point{X: 24, Y: 17},
		Canvas:    &canvas,
	}))
	if d.Pointer != (geom.Point{X: 134, Y: 77}) {
		t.Errorf("Pointer = %v, want (134, 77)", d.Pointer)
	}
	if *d.SnapX != 30 || *d.SnapY != 30 {
		t.Errorf("snap = (%v, %v), want (30, 30)", *d.SnapX, *d.SnapY)
	}
	if d.HoverID != "" || d.InsertIndex != nil {
		t.Errorf("no droppable but hover = %q, index = %v", d.HoverID, d.InsertIndex)
	}
}

func TestMoveIgnoresEmptyCanvas(t *testing.T) {
	m := newMachine(nil)
	canvas := geom.Rect{Left: 100, Top: 50}
	s := m.Start(Payload{From: FromPalette, Type: tree.TypeSection})
	d := mustDragging(t, m.Move(s, page(), MoveEvent{
		Activator: geom.Point{X: 110, Y: 60},
		Delta:     geom.Point{X: 24, Y: 17},
		Canvas:    &canvas,
	}))
	if *d.SnapX != 130 || *d.SnapY != 80 {
		t.Errorf("snap = (%v, %v), want (130, 80)", *d.SnapX, *d.SnapY)
	}
}

func TestMoveInsertIndex(t *testing.T) {
	m := newMachine(nil)
	tests := []struct {
		name       string
		over       Over
		pointerY   float64
		wantParent string
		wantIndex  int
	}{
		{"canvas appends top level", Over{ID: CanvasID}, 0, "", 2},
		{"container counts visible children", Over{ID: ContainerDropID("p")}, 0, "p", 2},
		{"empty area of tabs", Over{ID: ContainerDropID("t")}, 0, "t", 1},
		{
			name:       "above sibling midpoint",
			over:       Over{ID: "b", Index: intp(1), Rect: geom.Rect{Top: 100, Height: 40}},
			pointerY:   112,
			wantParent: "p",
			wantIndex:  1,
		},
		{
			name:       "below sibling midpoint",
			over:       Over{ID: "b", Index: intp(1), Rect: geom.Rect{Top: 100, Height: 40}},
			pointerY:   131,
			wantParent: "p",
			wantIndex:  2,
		},
		{
			name:       "exactly at midpoint inserts after",
			over:       Over{ID: "a", Index: intp(0), Rect: geom.Rect{Top: 100, Height: 40}},
			pointerY:   120,
			wantParent: "p",
			wantIndex:  1,
		},
		{
			name:       "sibling without index uses root length",
			over:       Over{ID: "s2", Rect: geom.Rect{Top: 0, Height: 400}},
			pointerY:   10,
			wantParent: "",
			wantIndex:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := m.Start(Payload{From: FromPalette, Type: tree.TypeText})
			over := tt.over
			d := mustDragging(t, m.Move(s, page(), MoveEvent{
				Activator: geom.Point{X: 0, Y: tt.pointerY},
				Over:      &over,
			}))
			if d.HoverID != tt.over.ID {
				t.Errorf("HoverID = %q, want %q", d.HoverID, tt.over.ID)
			}
			if d.InsertParentID != tt.wantParent {
				t.Errorf("InsertParentID = %q, want %q", d.InsertParentID, tt.wantParent)
			}
			if d.InsertIndex == nil || *d.InsertIndex != tt.wantIndex {
				t.Errorf("InsertIndex = %v, want %d", d.InsertIndex, tt.wantIndex)
			}
		})
	}
}

func TestMoveMidpointUsesCanvasSpace(t *testing.T) {
	m := NewMachine(Options{GridSize: 1, Zoom: 2})
	canvas := geom.Rect{Left: 0, Top: 100, Width: 1000, Height: 1000}
	s := m.Start(Payload{From: FromPalette, Type: tree.TypeText})
	// sibling spans screen y 300..340, canvas y 100..120, midpoint 110
	over := Over{ID: "a", Index: intp(0), Rect: geom.Rect{Top: 300, Height: 40}}

	above := mustDragging(t, m.Move(s, page(), MoveEvent{Activator: geom.Point{Y: 318}, Canvas: &canvas, Over: &over}))
	if *above.InsertIndex != 0 {
		t.Errorf("pointer above midpoint: InsertIndex = %d, want 0", *above.InsertIndex)
	}
	below := mustDragging(t, m.Move(s, page(), MoveEvent{Activator: geom.Point{Y: 322}, Canvas: &canvas, Over: &over}))
	if *below.InsertIndex != 1 {
		t.Errorf("pointer below midpoint: InsertIndex = %d, want 1", *below.InsertIndex)
	}
}

func TestMoveDropAllowed(t *testing.T) {
	m := newMachine(nil)
	tests := []struct {
		name    string
		payload Payload
		over    Over
		want    string
	}{
		{"palette allowed", Payload{From: FromPalette, Type: tree.TypeText}, Over{ID: ContainerDropID("p")}, "true"},
		{"palette disallowed at root", Payload{From: FromPalette, Type: tree.TypeText}, Over{ID: CanvasID}, "false"},
		{"palette without type", Payload{From: FromPalette}, Over{ID: CanvasID}, "nil"},
		{"library empty", Payload{From: FromLibrary}, Over{ID: CanvasID}, "nil"},
		{
			"library first template decides",
			Payload{From: FromLibrary, Templates: []tree.Node{&tree.Container{ID: "s", Type: tree.TypeSection}, &tree.Leaf{ID: "l", Type: tree.TypeText}}},
			Over{ID: CanvasID},
			"true",
		},
		{"canvas by id", Payload{From: FromCanvas, ID: "a", Type: tree.TypeSection}, Over{ID: CanvasID}, "false"},
		{"canvas falls back to hint", Payload{From: FromCanvas, ID: "gone", Type: tree.TypeSection}, Over{ID: CanvasID}, "true"},
		{"canvas unresolvable", Payload{From: FromCanvas, ID: "gone"}, Over{ID: CanvasID}, "nil"},
		{"unknown container", Payload{From: FromPalette, Type: tree.TypeText}, Over{ID: ContainerDropID("ghost")}, "nil"},
		{"unknown sibling", Payload{From: FromPalette, Type: tree.TypeText}, Over{ID: "ghost"}, "nil"},
		{"sibling in section", Payload{From: FromPalette, Type: tree.TypeText}, Over{ID: "b"}, "true"},
		{"sibling at root", Payload{From: FromPalette, Type: tree.TypeText}, Over{ID: "s2"}, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			over := tt.over
			d := mustDragging(t, m.Move(m.Start(tt.payload), page(), MoveEvent{Over: &over}))
			if got := boolString(d.DropAllowed); got != tt.want {
				t.Errorf("DropAllowed = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMoveRecomputesFromScratch(t *testing.T) {
	m := newMachine(nil)
	s := m.Start(Payload{From: FromPalette, Type: tree.TypeText})
	s = m.Move(s, page(), MoveEvent{Over: &Over{ID: ContainerDropID("p")}})
	s = m.Move(s, page(), MoveEvent{})
	d := mustDragging(t, s)
	if d.HoverID != "" || d.InsertIndex != nil || d.DropAllowed != nil {
		t.Errorf("stale hover state survived: hover=%q index=%v allowed=%s", d.HoverID, d.InsertIndex, boolString(d.DropAllowed))
	}
	if d.SnapX == nil {
		t.Error("snap guide not recomputed")
	}
}

func TestMoveAutoscrollsWithRawPointer(t *testing.T) {
	vp := &recordingViewport{bounds: geom.Rect{Width: 800, Height: 600}}
	m := newMachine(vp)
	canvas := geom.Rect{Left: 400, Top: 400, Width: 100, Height: 100}
	s := m.Start(Payload{From: FromPalette, Type: tree.TypeText})

	// No droppable: autoscroll still runs, using screen coordinates.
	m.Move(s, page(), MoveEvent{Activator: geom.Point{X: 400, Y: 590}, Canvas: &canvas})
	if vp.calls != 1 || vp.dy <= 0 || vp.dx != 0 {
		t.Errorf("ScrollBy calls=%d dx=%v dy=%v, want one downward scroll", vp.calls, vp.dx, vp.dy)
	}

	m.Move(s, page(), MoveEvent{Activator: geom.Point{X: 400, Y: 300}, Over: &Over{ID: CanvasID}})
	if vp.calls != 1 {
		t.Errorf("ScrollBy called away from edges (calls=%d)", vp.calls)
	}
}

func TestMoveHonoursEditorFlags(t *testing.T) {
	m := newMachine(nil)
	m.Flags = tree.EditorFlags{
		"h": {Hidden: []tree.Viewport{}},
		"a": {Hidden: []tree.Viewport{tree.ViewportMobile}},
	}
	m.Preview = tree.ViewportMobile

	d := mustDragging(t, m.Move(m.Start(Payload{From: FromPalette, Type: tree.TypeText}), page(), MoveEvent{Over: &Over{ID: ContainerDropID("p")}}))
	// a hidden on mobile, h shown because flags override its attribute
	if *d.InsertIndex != 2 {
		t.Errorf("InsertIndex = %d, want 2", *d.InsertIndex)
	}
}

func TestWithFlags(t *testing.T) {
	base := newMachine(nil)
	base.Preview = tree.ViewportMobile
	m := base.WithFlags(tree.EditorFlags{"a": {Hidden: []tree.Viewport{tree.ViewportMobile}}})

	if base.Flags != nil {
		t.Errorf("WithFlags modified the receiver: %v", base.Flags)
	}
	if m.Inserter() != base.Inserter() {
		t.Error("WithFlags copy does not share the inserter")
	}
	before := mustDragging(t, base.Move(base.Start(Payload{From: FromPalette, Type: tree.TypeText}), page(), MoveEvent{Over: &Over{ID: ContainerDropID("p")}}))
	after := mustDragging(t, m.Move(m.Start(Payload{From: FromPalette, Type: tree.TypeText}), page(), MoveEvent{Over: &Over{ID: ContainerDropID("p")}}))
	if *after.InsertIndex != *before.InsertIndex-1 {
		t.Errorf("InsertIndex = %d, want one less than %d", *after.InsertIndex, *before.InsertIndex)
	}
}

func TestHoverTab(t *testing.T) {
	m := newMachine(nil)
	s := m.HoverTab(m.Start(Payload{From: FromPalette, Type: tree.TypeText}), "t", 1)
	s = m.Move(s, page(), MoveEvent{})
	if tab := mustDragging(t, s).Tab; tab == nil || tab.ParentID != "t" || tab.Tab != 1 {
		t.Errorf("Tab = %+v, want t/1 to survive moves", tab)
	}
	if got := m.HoverTab(Idle{}, "t", 1); got != (Idle{}) {
		t.Errorf("HoverTab(Idle) = %#v", got)
	}
}

func TestCancelMidDrag(t *testing.T) {
	m := newMachine(nil)
	s := m.Start(Payload{From: FromPalette, Type: tree.TypeText})
	s = m.Move(s, page(), MoveEvent{Activator: geom.Point{X: 15, Y: 15}, Over: &Over{ID: ContainerDropID("p")}})
	if fb := FeedbackOf(s); fb.InsertIndex == nil || fb.ActiveType != tree.TypeText || fb.SnapX == nil {
		t.Fatalf("feedback before cancel = %+v", fb)
	}

	s, out := m.Cancel(s)
	if _, ok := s.(Idle); !ok {
		t.Fatalf("state after cancel = %T, want Idle", s)
	}
	fb := FeedbackOf(s)
	if fb.Active || fb.InsertIndex != nil || fb.ActiveType != "" || fb.SnapX != nil || fb.SnapY != nil || fb.DropAllowed != nil {
		t.Errorf("feedback after cancel = %+v, want zero", fb)
	}
	if len(out.Actions) != 0 {
		t.Errorf("cancel emitted %d actions", len(out.Actions))
	}
	if out.Announce != "Canceled" {
		t.Errorf("Announce = %q, want Canceled", out.Announce)
	}
}
