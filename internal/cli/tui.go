package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagebuilder/pkg/action"
	"github.com/matzehuels/pagebuilder/pkg/autoscroll"
	"github.com/matzehuels/pagebuilder/pkg/dnd"
	"github.com/matzehuels/pagebuilder/pkg/editor"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/geom"
	"github.com/matzehuels/pagebuilder/pkg/io"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Canvas styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listTargetStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	listBlockedStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)

// Screen layout: title, palette strip, blank line, then the rows.
const (
	paletteLine = 1
	headerLines = 3
	footerLines = 2
)

// tuiCommand creates the tui command, an interactive terminal canvas.
func (c *CLI) tuiCommand() *cobra.Command {
	var rulesFile string
	var persist bool

	cmd := &cobra.Command{
		Use:   "tui <page.json>",
		Short: "Edit a page in an interactive terminal canvas",
		Long: `Edit a page with the mouse and keyboard. Drag rows to move nodes, drag the
palette entry onto the page to add a block.

Keys: ↑/↓ select · K/J move · p palette type · i insert · d delete
      u undo · r redo · s save · esc cancel drag · q quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runTUI(ctx, args[0], rulesFile, persist)
		},
	}

	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rules registry (default: config or built-in)")
	cmd.Flags().BoolVar(&persist, "persist", true, "record edits in the page's persisted history")

	return cmd
}

func (c *CLI) runTUI(ctx context.Context, path, rulesFile string, persist bool) error {
	table, err := c.loadRules(rulesFile)
	if err != nil {
		return err
	}
	page, err := io.ImportJSON(path, validateOptions(table))
	if err != nil {
		return err
	}

	docOpts := editor.Options{Validate: validateOptions(table), Rules: table, Logger: c.Logger}
	if persist {
		store, ch, err := c.newStore(ctx, false)
		if err != nil {
			return err
		}
		defer ch.Close()
		docOpts.Store = store
	}
	doc, err := editor.Open(ctx, page.ID, page.Components, docOpts)
	if err != nil {
		return err
	}

	// Terminal cells replace pixels: no grid, no zoom, a two-row scroll band.
	scroll := &rowScroll{}
	opts := c.machineOptions(table, nil)
	opts.GridSize = 0
	opts.Zoom = 1
	opts.Autoscroll = autoscroll.New(autoscroll.Config{Edge: 2, MaxSpeed: 1}, c.Logger)
	opts.Viewport = scroll

	model := newCanvasModel(ctx, doc, dnd.NewMachine(opts), scroll)
	// Log output would tear the alternate screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(LogWarn)
	defer c.Logger.SetLevel(level)

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run(); err != nil {
		return err
	}
	if err := io.ExportJSON(&io.Page{ID: page.ID, Components: doc.Tree()}, path); err != nil {
		return err
	}
	printSuccess("Saved %s", page.ID)
	printFile(path)
	printStats(tree.Count(doc.Tree()), tree.Depth(doc.Tree()), false)
	return nil
}

// =============================================================================
// Rows
// =============================================================================

// canvasRow is one node of the flattened page.
type canvasRow struct {
	id        string
	typ       tree.Type
	parentID  string
	index     int
	depth     int
	container bool
	hidden    bool
}

func flattenRows(t tree.Tree, flags tree.EditorFlags, vp tree.Viewport) []canvasRow {
	var rows []canvasRow
	var walk func(nodes []tree.Node, parentID string, depth int)
	walk = func(nodes []tree.Node, parentID string, depth int) {
		for i, n := range nodes {
			if n == nil {
				continue
			}
			rows = append(rows, canvasRow{
				id:        n.NodeID(),
				typ:       n.NodeType(),
				parentID:  parentID,
				index:     i,
				depth:     depth,
				container: tree.IsContainer(n),
				hidden:    tree.IsHiddenForViewport(n, flags, vp),
			})
			walk(tree.Children(n), n.NodeID(), depth+1)
		}
	}
	walk(t, "", 0)
	return rows
}

// rowScroll is the scrollable row area. It implements autoscroll.Viewport
// in terminal cells.
type rowScroll struct {
	offset  int
	rows    int // rows in the page
	visible int // rows that fit on screen
	width   int
}

func (s *rowScroll) Bounds() (geom.Rect, bool) {
	if s.visible <= 0 {
		return geom.Rect{}, false
	}
	return geom.Rect{Top: headerLines, Width: float64(s.width), Height: float64(s.visible)}, true
}

func (s *rowScroll) ScrollBy(_, dy float64) error {
	if dy == 0 {
		return nil
	}
	step := int(math.Round(dy))
	if step == 0 {
		step = int(math.Copysign(1, dy))
	}
	s.offset = max(0, min(s.offset+step, s.rows-s.visible))
	return nil
}

// =============================================================================
// canvasModel - Interactive page editing
// =============================================================================

// press is a mouse press that has not become a gesture yet.
type press struct {
	x, y    int
	row     int // -1 for the palette
	started bool
}

type canvasModel struct {
	ctx     context.Context
	doc     *editor.Document
	machine *dnd.Machine
	ctrl    *dnd.Controller
	scroll  *rowScroll

	palette    []tree.Type
	paletteIdx int
	cursor     int
	rows       []canvasRow
	press      *press

	status    string
	statusErr bool
	height    int
}

func newCanvasModel(ctx context.Context, doc *editor.Document, m *dnd.Machine, scroll *rowScroll) *canvasModel {
	model := &canvasModel{
		ctx:     ctx,
		doc:     doc,
		machine: m,
		scroll:  scroll,
		palette: tree.AllTypes(),
		height:  24,
	}
	model.newController()
	model.refresh()
	return model
}

// newController binds a controller to the document's current editor flags.
func (m *canvasModel) newController() {
	m.ctrl = dnd.NewController(m.machine.WithFlags(m.doc.Flags()), m.doc)
	m.ctrl.OnSignal = func(s dnd.Signal) { m.setStatus(s.Message, s.Rejected) }
	m.ctrl.OnSelect = m.selectID
}

func (m *canvasModel) refresh() {
	m.rows = flattenRows(m.doc.Tree(), m.doc.Flags(), m.machine.Preview)
	m.cursor = max(0, min(m.cursor, len(m.rows)-1))
	m.scroll.rows = len(m.rows)
	m.scroll.visible = max(1, m.height-headerLines-footerLines)
	m.scroll.offset = max(0, min(m.scroll.offset, m.scroll.rows-m.scroll.visible))
}

func (m *canvasModel) setStatus(msg string, isErr bool) {
	m.status, m.statusErr = msg, isErr
}

func (m *canvasModel) fail(err error) {
	if err != nil {
		m.setStatus(perrors.UserMessage(err), true)
	}
}

func (m *canvasModel) selectID(id string) {
	m.refresh()
	for i, r := range m.rows {
		if r.id == id {
			m.cursor = i
			break
		}
	}
	m.doc.Select(id)
	m.follow()
}

// follow scrolls the cursor into view.
func (m *canvasModel) follow() {
	if m.cursor < m.scroll.offset {
		m.scroll.offset = m.cursor
	} else if m.cursor >= m.scroll.offset+m.scroll.visible {
		m.scroll.offset = m.cursor - m.scroll.visible + 1
	}
}

func (m *canvasModel) current() (canvasRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return canvasRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *canvasModel) Init() tea.Cmd {
	return nil
}

func (m *canvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.scroll.width = msg.Width
		m.refresh()
	case tea.KeyMsg:
		return m, m.key(msg.String())
	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

func (m *canvasModel) key(k string) tea.Cmd {
	ctx := m.ctx
	switch k {
	case "q", "ctrl+c":
		m.ctrl.Cancel(ctx)
		return tea.Quit
	case "esc":
		if m.ctrl.Feedback().Active {
			m.ctrl.Cancel(ctx)
			m.press = nil
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.follow()
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.follow()
		}
	case "K", "shift+up", "J", "shift+down":
		row, ok := m.current()
		if !ok {
			return nil
		}
		dir := editor.Down
		if k == "K" || k == "shift+up" {
			dir = editor.Up
		}
		if _, err := m.doc.Reorder(ctx, row.id, dir); err != nil {
			m.fail(err)
			return nil
		}
		m.selectID(row.id)
	case "p":
		m.paletteIdx = (m.paletteIdx + 1) % len(m.palette)
	case "i":
		m.newController()
		if _, err := m.ctrl.PaletteAdd(ctx, m.palette[m.paletteIdx], m.doc.Selection(), nil); err != nil {
			m.fail(err)
		}
		m.refresh()
	case "d":
		row, ok := m.current()
		if !ok {
			return nil
		}
		if err := m.doc.Dispatch(ctx, action.Delete{ID: row.id}); err != nil {
			m.fail(err)
		} else {
			m.setStatus("Deleted "+row.id, false)
		}
		m.refresh()
	case "u":
		m.fail(m.doc.Undo(ctx))
		m.refresh()
	case "r":
		m.fail(m.doc.Redo(ctx))
		m.refresh()
	case "s":
		if err := m.doc.Save(ctx); err != nil {
			m.fail(err)
		} else {
			m.setStatus("Saved", false)
		}
	}
	return nil
}

// rowAt returns the index of the row drawn at screen line y, or -1.
func (m *canvasModel) rowAt(y int) int {
	i := y - headerLines + m.scroll.offset
	if y < headerLines || i < 0 || i >= len(m.rows) || y >= headerLines+m.scroll.visible {
		return -1
	}
	return i
}

// overAt returns the droppable at screen cell (x, y). Container rows take
// the drop as their last child, leaf rows insert before themselves and the
// area below the rows appends at the top level. Cells outside the row area
// are not droppable.
func (m *canvasModel) overAt(x, y int) *dnd.Over {
	area, ok := m.scroll.Bounds()
	if !ok || !area.Contains(geom.Point{X: float64(x), Y: float64(y)}) {
		return nil
	}
	rect := geom.Rect{Top: float64(y), Width: float64(m.scroll.width), Height: 1}
	i := m.rowAt(y)
	if i < 0 {
		return &dnd.Over{ID: dnd.CanvasID, Rect: area}
	}
	r := m.rows[i]
	if r.container {
		return &dnd.Over{ID: dnd.ContainerDropID(r.id), Rect: rect}
	}
	parent, index := r.parentID, r.index
	return &dnd.Over{ID: r.id, Rect: rect, Index: &index, Parent: &parent}
}

func (m *canvasModel) mouse(msg tea.MouseMsg) {
	ctx := m.ctx
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if msg.Y == paletteLine {
			m.press = &press{x: msg.X, y: msg.Y, row: -1}
		} else if i := m.rowAt(msg.Y); i >= 0 {
			m.press = &press{x: msg.X, y: msg.Y, row: i}
		}

	case tea.MouseActionMotion:
		p := m.press
		if p == nil {
			return
		}
		if !p.started {
			if msg.X == p.x && msg.Y == p.y {
				return
			}
			p.started = true
			m.newController()
			m.ctrl.Start(ctx, m.payload(p))
		}
		m.ctrl.Move(dnd.MoveEvent{
			Activator: geom.Point{X: float64(p.x), Y: float64(p.y)},
			Delta:     geom.Point{X: float64(msg.X - p.x), Y: float64(msg.Y - p.y)},
			Over:      m.overAt(msg.X, msg.Y),
		})

	case tea.MouseActionRelease:
		p := m.press
		m.press = nil
		if p == nil {
			return
		}
		if !p.started {
			if p.row >= 0 {
				m.cursor = p.row
				m.doc.Select(m.rows[p.row].id)
			}
			return
		}
		out, err := m.ctrl.End(ctx, dnd.EndEvent{Over: m.overAt(msg.X, msg.Y)})
		if err != nil {
			m.fail(err)
		} else if out.OK() && len(out.Actions) > 0 && out.Announce == "" {
			m.setStatus("Dropped", false)
		}
		m.refresh()
	}
}

func (m *canvasModel) payload(p *press) dnd.Payload {
	if p.row < 0 {
		typ := m.palette[m.paletteIdx]
		return dnd.Payload{From: dnd.FromPalette, Type: typ, Label: string(typ)}
	}
	r := m.rows[p.row]
	return dnd.Payload{From: dnd.FromCanvas, ID: r.id, Type: r.typ, ParentID: r.parentID, Index: r.index, Label: r.id}
}

func (m *canvasModel) View() string {
	var b strings.Builder
	fb := m.ctrl.Feedback()

	h := m.doc.History()
	b.WriteString(StyleTitle.Render(m.doc.ID()))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d nodes · %d undo · %d redo", tree.Count(h.Present), len(h.Past), len(h.Future))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("palette ") + listSelectedStyle.Render("‹ "+string(m.palette[m.paletteIdx])+" ›"))
	b.WriteString("\n\n")

	end := min(len(m.rows), m.scroll.offset+m.scroll.visible)
	for i := m.scroll.offset; i < end; i++ {
		b.WriteString(m.renderRow(i, fb))
		b.WriteString("\n")
	}
	for i := end - m.scroll.offset; i < m.scroll.visible; i++ {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case fb.Active:
		b.WriteString(m.renderFeedback(fb))
	case m.statusErr:
		b.WriteString(listBlockedStyle.Render(m.status))
	default:
		b.WriteString(listDimStyle.Render(m.status))
	}
	return b.String()
}

func (m *canvasModel) renderRow(i int, fb dnd.Feedback) string {
	r := m.rows[i]
	cursor := "  "
	if i == m.cursor {
		cursor = "▸ "
	}
	marker := "·"
	if r.container {
		marker = "▾"
	}
	line := fmt.Sprintf("%s%s%s %s %s", cursor, strings.Repeat("  ", r.depth), marker, r.typ, listDimStyle.Render(r.id))

	hovered := fb.Active && (fb.HoverID == r.id || fb.HoverID == dnd.ContainerDropID(r.id))
	switch {
	case hovered && fb.DropAllowed != nil && !*fb.DropAllowed:
		return listBlockedStyle.Render(line)
	case hovered:
		return listTargetStyle.Render(line)
	case r.hidden:
		return listDimStyle.Render(line)
	case i == m.cursor:
		return listSelectedStyle.Render(line)
	}
	return listNormalStyle.Render(line)
}

func (m *canvasModel) renderFeedback(fb dnd.Feedback) string {
	parent := fb.InsertParentID
	if parent == "" {
		parent = "page"
	}
	msg := fmt.Sprintf("dragging %s", fb.ActiveType)
	if fb.HoverID != "" {
		msg += " → " + parent
		if fb.InsertIndex != nil {
			msg += fmt.Sprintf(" #%d", *fb.InsertIndex)
		}
	}
	if fb.DropAllowed != nil && !*fb.DropAllowed {
		return listBlockedStyle.Render(msg + " (not allowed)")
	}
	return listTargetStyle.Render(msg)
}
