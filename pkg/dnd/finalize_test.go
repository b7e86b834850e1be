package dnd

import (
	"reflect"
	"testing"

	"github.com/matzehuels/pagebuilder/pkg/action"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/insert"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

func TestEndWithoutGesture(t *testing.T) {
	m := newMachine(nil)
	s, out := m.End(Idle{}, page(), EndEvent{Over: &Over{ID: CanvasID}})
	if _, ok := s.(Idle); !ok {
		t.Errorf("state = %T, want Idle", s)
	}
	if len(out.Actions) != 0 || out.Rejected != nil {
		t.Errorf("outcome = %+v, want empty", out)
	}
}

func TestEndOutsideDroppable(t *testing.T) {
	m := newMachine(nil)
	s, out := m.End(m.Start(Payload{From: FromPalette, Type: tree.TypeText}), page(), EndEvent{})
	if _, ok := s.(Idle); !ok {
		t.Errorf("state = %T, want Idle", s)
	}
	if len(out.Actions) != 0 || out.Rejected != nil || out.Announce != "" {
		t.Errorf("outcome = %+v, want empty", out)
	}
}

func TestEndPaletteRejected(t *testing.T) {
	m := newMachine(nil)
	_, out := m.End(m.Start(Payload{From: FromPalette, Type: tree.TypeText}), page(), EndEvent{Over: &Over{ID: CanvasID}})
	if out.OK() {
		t.Fatalf("drop of Text on root accepted: %v", out.Actions)
	}
	if len(out.Actions) != 0 {
		t.Errorf("rejected drop emitted %d actions", len(out.Actions))
	}
	if !perrors.Is(out.Rejected, perrors.ErrCodeInvalidPlacement) {
		t.Errorf("code = %s, want %s", perrors.GetCode(out.Rejected), perrors.ErrCodeInvalidPlacement)
	}
	if want := "Cannot place Text here"; out.Rejection() != want {
		t.Errorf("Rejection() = %q, want %q", out.Rejection(), want)
	}
}

func TestEndPaletteIntoContainer(t *testing.T) {
	m := newMachine(nil)
	_, out := m.End(m.Start(Payload{From: FromPalette, Type: tree.TypeButton}), page(), EndEvent{Over: &Over{ID: ContainerDropID("p")}})
	if !out.OK() || len(out.Actions) != 1 {
		t.Fatalf("outcome = %+v, want one add", out)
	}
	add := out.Actions[0].(action.Add)
	if add.ParentID != "p" || add.Index != 3 {
		t.Errorf("add at %s[%d], want p[3]", add.ParentID, add.Index)
	}
	if add.Component.NodeID() != "n1" || out.Select != "n1" {
		t.Errorf("id = %s, select = %s, want n1", add.Component.NodeID(), out.Select)
	}
}

func TestEndLibraryAtSibling(t *testing.T) {
	m := newMachine(nil)
	templates := []tree.Node{
		&tree.Leaf{ID: "tplA", Type: tree.TypeText},
		&tree.Leaf{ID: "tplB", Type: tree.TypeButton},
	}
	_, out := m.End(m.Start(Payload{From: FromLibrary, Templates: templates}), page(), EndEvent{Over: &Over{ID: "b"}})
	if !out.OK() || len(out.Actions) != 2 {
		t.Fatalf("outcome = %+v, want two adds", out)
	}
	for i, want := range []struct {
		index int
		typ   tree.Type
	}{{2, tree.TypeText}, {3, tree.TypeButton}} {
		add := out.Actions[i].(action.Add)
		if add.ParentID != "p" || add.Index != want.index {
			t.Errorf("add %d at %s[%d], want p[%d]", i, add.ParentID, add.Index, want.index)
		}
		if add.Component.NodeType() != want.typ {
			t.Errorf("add %d type = %s, want %s", i, add.Component.NodeType(), want.typ)
		}
		if id := add.Component.NodeID(); id == "tplA" || id == "tplB" {
			t.Errorf("add %d reused template id %s", i, id)
		}
	}
	if out.Select != out.Actions[0].(action.Add).Component.NodeID() {
		t.Errorf("Select = %s, want first inserted id", out.Select)
	}
}

func TestEndCanvasMoveForward(t *testing.T) {
	m := newMachine(nil)
	s := m.Start(Payload{From: FromCanvas, ID: "a", ParentID: "p", Index: 0, Type: tree.TypeText})
	_, out := m.End(s, page(), EndEvent{Over: &Over{ID: "b"}})
	if !out.OK() {
		t.Fatalf("move rejected: %v", out.Rejected)
	}
	want := []action.Action{action.Move{
		From: action.Location{ParentID: "p", Index: 0},
		To:   action.Location{ParentID: "p", Index: 1},
	}}
	if !reflect.DeepEqual(out.Actions, want) {
		t.Errorf("actions = %v, want %v", out.Actions, want)
	}
}

func TestEndCanvasMoveIntoTab(t *testing.T) {
	m := newMachine(nil)
	s := m.Start(Payload{From: FromCanvas, ID: "a", ParentID: "p", Index: 0, Type: tree.TypeText})
	s = m.HoverTab(s, "t", 1)
	_, out := m.End(s, page(), EndEvent{Over: &Over{ID: ContainerDropID("t")}})
	if !out.OK() || len(out.Actions) != 2 {
		t.Fatalf("outcome = %+v, want move and update", out)
	}
	mv := out.Actions[0].(action.Move)
	if mv.To != (action.Location{ParentID: "t", Index: 1}) {
		t.Errorf("move to %v, want t[1]", mv.To)
	}
	up := out.Actions[1].(action.Update)
	if up.ID != "a" || up.Patch[tree.AttrSlotKey] != "1" {
		t.Errorf("update = %+v, want slotKey 1 on a", up)
	}
	if out.Announce != "Moved to tab 2" {
		t.Errorf("Announce = %q, want %q", out.Announce, "Moved to tab 2")
	}
}

func TestEndTabHoverOtherParentIgnored(t *testing.T) {
	m := newMachine(nil)
	s := m.HoverTab(m.Start(Payload{From: FromPalette, Type: tree.TypeText}), "t", 1)
	_, out := m.End(s, page(), EndEvent{Over: &Over{ID: ContainerDropID("p")}})
	if !out.OK() {
		t.Fatalf("rejected: %v", out.Rejected)
	}
	add := out.Actions[0].(action.Add)
	if _, ok := tree.Attr(add.Component, tree.AttrSlotKey); ok {
		t.Error("slotKey stamped outside the hovered tabs")
	}
}

func TestResolveTarget(t *testing.T) {
	m := newMachine(nil)
	m.Flags = tree.EditorFlags{}
	tests := []struct {
		name    string
		drag    *Dragging
		over    Over
		want    insert.Target
		wantErr perrors.Code
	}{
		{"canvas", nil, Over{ID: CanvasID}, insert.Target{Index: 2}, ""},
		{"container appends", nil, Over{ID: ContainerDropID("p")}, insert.Target{ParentID: "p", Index: 3}, ""},
		{
			"container maps visible index",
			&Dragging{InsertParentID: "p", InsertIndex: intp(1)},
			Over{ID: ContainerDropID("p")},
			insert.Target{ParentID: "p", Index: 2},
			"",
		},
		{
			"hover index of other parent ignored",
			&Dragging{InsertParentID: "s2", InsertIndex: intp(0)},
			Over{ID: ContainerDropID("p")},
			insert.Target{ParentID: "p", Index: 3},
			"",
		},
		{"container leaf", nil, Over{ID: ContainerDropID("a")}, insert.Target{ParentID: "a"}, ""},
		{"missing container", nil, Over{ID: ContainerDropID("ghost")}, insert.Target{}, perrors.ErrCodeNotFound},
		{"declared parent", nil, Over{ID: "x", Parent: strp("t"), Index: intp(4)}, insert.Target{ParentID: "t", Index: 4}, ""},
		{"declared top level", nil, Over{ID: "s2", Parent: strp("")}, insert.Target{}, ""},
		{"container node", nil, Over{ID: "t"}, insert.Target{ParentID: "t", Index: 1}, ""},
		{"leaf node", nil, Over{ID: "b"}, insert.Target{ParentID: "p", Index: 2}, ""},
		{"missing node", nil, Over{ID: "ghost"}, insert.Target{}, perrors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ResolveTarget(page(), tt.drag, tt.over)
			if tt.wantErr != "" {
				if !perrors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveTarget: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveTarget = %+v, want %+v", got, tt.want)
			}
		})
	}
}
