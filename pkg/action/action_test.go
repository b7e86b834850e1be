package action

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/matzehuels/pagebuilder/pkg/tree"
)

func TestListJSON(t *testing.T) {
	in := List{
		Add{Component: &tree.Container{ID: "s", Type: tree.TypeSection}, ParentID: "", Index: 0},
		Move{From: Location{ParentID: "s", Index: 0}, To: Location{Index: 2}},
		Update{ID: "s", Patch: tree.Attrs{"slotKey": "2"}},
		Delete{ID: "s"},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var out List
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].Kind() != in[i].Kind() {
			t.Errorf("out[%d].Kind() = %v, want %v", i, out[i].Kind(), in[i].Kind())
		}
	}
	add := out[0].(Add)
	if _, ok := add.Component.(*tree.Container); !ok {
		t.Errorf("add component = %T, want *tree.Container", add.Component)
	}
	if mv := out[1].(Move); mv.From.ParentID != "s" || mv.To.Index != 2 {
		t.Errorf("move = %+v", mv)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"unknown type", `{"type":"rename"}`},
		{"add without component", `{"type":"add","index":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
	if _, err := Decode([]byte(`{"type":"rename"}`)); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}

func TestMoveJSONShape(t *testing.T) {
	data, err := json.Marshal(Move{From: Location{Index: 1}, To: Location{ParentID: "p", Index: 0}})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"move","from":{"index":1},"to":{"parentId":"p","index":0}}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}
