package cli

import (
	"context"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pagebuilder/pkg/dnd"
	"github.com/matzehuels/pagebuilder/pkg/editor"
	"github.com/matzehuels/pagebuilder/pkg/rules"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// newTestCanvas opens a page with one section holding title and cta. Rows
// are drawn at lines 3 (hero), 4 (title) and 5 (cta).
func newTestCanvas(t *testing.T) *canvasModel {
	t.Helper()
	ctx := context.Background()
	table := rules.Default()
	page := tree.Tree{
		tree.WithChildren(tree.NewContainer("hero", tree.TypeSection, nil), []tree.Node{
			tree.NewLeaf("title", tree.TypeText, nil),
			tree.NewLeaf("cta", tree.TypeButton, nil),
		}),
	}
	doc, err := editor.Open(ctx, "home", page, editor.Options{Validate: validateOptions(table)})
	if err != nil {
		t.Fatal(err)
	}
	scroll := &rowScroll{}
	m := dnd.NewMachine(dnd.Options{Rules: table, IDs: &tree.SequenceIDs{Prefix: "n"}, Viewport: scroll})
	model := newCanvasModel(ctx, doc, m, scroll)
	model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model
}

func sendKeys(m *canvasModel, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func drag(m *canvasModel, fromY, toY int) {
	m.Update(tea.MouseMsg{X: 4, Y: fromY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 5, Y: toY, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 5, Y: toY, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func childIDs(t *testing.T, m *canvasModel, parentID string) []string {
	t.Helper()
	children, ok := tree.ChildrenOf(m.doc.Tree(), parentID)
	if !ok {
		t.Fatalf("no children for %q", parentID)
	}
	var ids []string
	for _, n := range children {
		ids = append(ids, n.NodeID())
	}
	return ids
}

func TestFlattenRows(t *testing.T) {
	m := newTestCanvas(t)
	want := []canvasRow{
		{id: "hero", typ: tree.TypeSection, depth: 0, container: true},
		{id: "title", typ: tree.TypeText, parentID: "hero", index: 0, depth: 1},
		{id: "cta", typ: tree.TypeButton, parentID: "hero", index: 1, depth: 1},
	}
	if !slices.Equal(m.rows, want) {
		t.Errorf("rows = %+v, want %+v", m.rows, want)
	}
}

func TestCanvasReorderAndUndo(t *testing.T) {
	m := newTestCanvas(t)

	sendKeys(m, "down", "down", "K")
	if got := childIDs(t, m, "hero"); !slices.Equal(got, []string{"cta", "title"}) {
		t.Fatalf("after K children = %v, want [cta title]", got)
	}
	if m.rows[m.cursor].id != "cta" {
		t.Errorf("cursor on %q, want cta", m.rows[m.cursor].id)
	}

	sendKeys(m, "u")
	if got := childIDs(t, m, "hero"); !slices.Equal(got, []string{"title", "cta"}) {
		t.Errorf("after undo children = %v, want [title cta]", got)
	}
	sendKeys(m, "r")
	if got := childIDs(t, m, "hero"); !slices.Equal(got, []string{"cta", "title"}) {
		t.Errorf("after redo children = %v, want [cta title]", got)
	}
}

func TestCanvasUndoEmptyShowsError(t *testing.T) {
	m := newTestCanvas(t)
	sendKeys(m, "u")
	if !m.statusErr || m.status == "" {
		t.Errorf("status = %q (err %v), want an error", m.status, m.statusErr)
	}
}

func TestCanvasDragMovesNode(t *testing.T) {
	m := newTestCanvas(t)

	// cta (line 5) dropped on title (line 4) lands before it.
	drag(m, 5, 4)

	if got := childIDs(t, m, "hero"); !slices.Equal(got, []string{"cta", "title"}) {
		t.Errorf("children = %v, want [cta title]", got)
	}
	if m.ctrl.Feedback().Active {
		t.Error("gesture still active after release")
	}
}

func TestCanvasDragPaletteToPage(t *testing.T) {
	m := newTestCanvas(t)

	// The palette starts at Section; the area below the rows is the page.
	drag(m, paletteLine, 10)

	page := m.doc.Tree()
	if len(page) != 2 {
		t.Fatalf("top-level nodes = %d, want 2", len(page))
	}
	if page[1].NodeType() != tree.TypeSection {
		t.Errorf("new node type = %s, want Section", page[1].NodeType())
	}
	if m.rows[m.cursor].id != page[1].NodeID() {
		t.Errorf("cursor on %q, want new node %q", m.rows[m.cursor].id, page[1].NodeID())
	}
}

func TestCanvasOverAt(t *testing.T) {
	m := newTestCanvas(t)

	tests := []struct {
		name string
		x, y int
		want string
	}{
		{"header", 4, paletteLine, ""},
		{"container row", 4, headerLines, dnd.ContainerDropID("hero")},
		{"leaf row", 4, headerLines + 1, "title"},
		{"below rows", 4, 12, dnd.CanvasID},
		{"footer", 4, 24 - footerLines, ""},
		{"past right edge", 80, 12, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			over := m.overAt(tt.x, tt.y)
			got := ""
			if over != nil {
				got = over.ID
			}
			if got != tt.want {
				t.Errorf("overAt(%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestCanvasDragRejected(t *testing.T) {
	m := newTestCanvas(t)

	// A Section may not sit inside a Section.
	drag(m, paletteLine, 4)

	if got := tree.Count(m.doc.Tree()); got != 3 {
		t.Errorf("node count = %d, want 3", got)
	}
	if !m.statusErr {
		t.Errorf("status = %q, want a rejection", m.status)
	}
}

func TestCanvasClickSelects(t *testing.T) {
	m := newTestCanvas(t)
	m.Update(tea.MouseMsg{X: 4, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 4, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
	if got := m.doc.Selection(); !slices.Equal(got, []string{"cta"}) {
		t.Errorf("selection = %v, want [cta]", got)
	}
	if got := tree.Count(m.doc.Tree()); got != 3 {
		t.Errorf("click changed the page: %d nodes", got)
	}
}

func TestCanvasInsertAndDelete(t *testing.T) {
	m := newTestCanvas(t)

	sendKeys(m, "i")
	if got := tree.Count(m.doc.Tree()); got != 4 {
		t.Fatalf("after insert node count = %d, want 4", got)
	}
	sendKeys(m, "d")
	if got := tree.Count(m.doc.Tree()); got != 3 {
		t.Errorf("after delete node count = %d, want 3", got)
	}
}

func TestCanvasView(t *testing.T) {
	m := newTestCanvas(t)
	view := m.View()
	for _, want := range []string{"home", "Section", "hero", "title", "cta"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRowScroll(t *testing.T) {
	s := &rowScroll{rows: 10, visible: 4, width: 80}
	tests := []struct {
		dy   float64
		want int
	}{
		{0.4, 1},
		{1, 2},
		{100, 6},
		{-0.2, 5},
		{-100, 0},
	}
	for _, tt := range tests {
		s.ScrollBy(0, tt.dy)
		if s.offset != tt.want {
			t.Errorf("ScrollBy(%v) offset = %d, want %d", tt.dy, s.offset, tt.want)
		}
	}
	if _, ok := (&rowScroll{}).Bounds(); ok {
		t.Error("Bounds of an empty viewport reported ok")
	}
}
