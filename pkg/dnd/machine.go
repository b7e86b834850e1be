package dnd

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagebuilder/pkg/autoscroll"
	"github.com/matzehuels/pagebuilder/pkg/geom"
	"github.com/matzehuels/pagebuilder/pkg/insert"
	"github.com/matzehuels/pagebuilder/pkg/rules"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Options configures a [Machine].
type Options struct {
	Rules    *rules.Table
	IDs      tree.IDGenerator
	Defaults map[tree.Type]tree.Attrs

	// GridSize is the snap grid in canvas pixels; 1 or less disables
	// snapping.
	GridSize int
	// Zoom is the canvas zoom factor; 0 means 1.
	Zoom float64

	Autoscroll *autoscroll.Controller
	Viewport   autoscroll.Viewport

	// Flags and Preview select which nodes count as visible when computing
	// insertion indices.
	Flags   tree.EditorFlags
	Preview tree.Viewport

	Logger *log.Logger
}

// Machine holds the dependencies of the drag state machine. Its transition
// methods do not modify the machine.
type Machine struct {
	Options
	inserter *insert.Inserter
}

// NewMachine returns a machine for opts. A nil rules table uses
// [rules.Default], a nil id generator [tree.UUIDv7], and a nil logger
// log.Default().
func NewMachine(opts Options) *Machine {
	if opts.Rules == nil {
		opts.Rules = rules.Default()
	}
	if opts.IDs == nil {
		opts.IDs = tree.UUIDv7{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Machine{
		Options:  opts,
		inserter: insert.New(opts.Rules, opts.IDs, opts.Defaults),
	}
}

// WithFlags returns a copy of m that computes visibility from flags. The
// copy shares the inserter.
func (m *Machine) WithFlags(flags tree.EditorFlags) *Machine {
	cp := *m
	cp.Flags = flags
	return &cp
}

// Inserter returns the inserter used to finalize drops.
func (m *Machine) Inserter() *insert.Inserter { return m.inserter }

// Start begins a gesture with payload p.
func (m *Machine) Start(p Payload) State {
	m.Logger.Debug("drag start", "from", p.From, "type", p.ActiveType(), "id", p.ID)
	return &Dragging{Payload: p}
}

// Move recomputes the session for a pointer move. Moves outside a gesture
// are ignored.
func (m *Machine) Move(s State, t tree.Tree, ev MoveEvent) State {
	prev, ok := s.(*Dragging)
	if !ok || prev == nil {
		return s
	}
	d := &Dragging{Payload: prev.Payload, Tab: prev.Tab}

	raw := ev.Pointer()
	d.Pointer = raw
	pt := raw
	if ev.Canvas != nil && !ev.Canvas.Empty() {
		pt = geom.ScreenToCanvas(raw, *ev.Canvas, m.Zoom)
	}
	snap := geom.Snap(pt, m.GridSize)
	d.SnapX, d.SnapY = ptr(snap.X), ptr(snap.Y)

	m.Autoscroll.Tick(m.Viewport, raw)

	if ev.Over == nil {
		return d
	}
	over := *ev.Over
	d.HoverID = over.ID

	parentID, resolved := m.hoverParent(t, over)
	d.InsertParentID = parentID
	if resolved {
		if kind, ok := tree.ResolveParentKind(t, parentID); ok {
			d.DropAllowed = m.allowed(t, d.Payload, kind)
		}
	}

	visibleRoot := len(tree.Visible(t, m.Flags, m.Preview))
	switch {
	case over.ID == CanvasID:
		d.InsertIndex = ptr(visibleRoot)
	case isContainerDrop(over.ID):
		children, _ := tree.ChildrenOf(t, parentID)
		d.InsertIndex = ptr(len(tree.Visible(children, m.Flags, m.Preview)))
	default:
		base := visibleRoot
		if over.Index != nil {
			base = *over.Index
		}
		rect := over.Rect
		if ev.Canvas != nil {
			rect = rect.ToCanvas(*ev.Canvas, m.Zoom)
		}
		if *d.SnapY >= rect.MidY() {
			base++
		}
		d.InsertIndex = ptr(base)
	}
	return d
}

func isContainerDrop(id string) bool {
	_, ok := ContainerOf(id)
	return ok
}

// hoverParent returns the parent a drop on over would land in and whether
// it could be resolved.
func (m *Machine) hoverParent(t tree.Tree, over Over) (string, bool) {
	if over.ID == CanvasID {
		return "", true
	}
	if id, ok := ContainerOf(over.ID); ok {
		return id, true
	}
	if parent, ok := tree.FindParentID(t, over.ID); ok {
		return parent, true
	}
	if over.Parent != nil {
		return *over.Parent, true
	}
	return "", false
}

// allowed evaluates the placement rules for p dropped into kind. It returns
// nil when there is nothing to evaluate.
func (m *Machine) allowed(t tree.Tree, p Payload, kind tree.ParentKind) *bool {
	var typ tree.Type
	switch p.From {
	case FromPalette:
		typ = p.Type
	case FromLibrary:
		if len(p.Templates) == 0 || p.Templates[0] == nil {
			return nil
		}
		typ = p.Templates[0].NodeType()
	case FromCanvas:
		typ = p.Type
		if found, ok := tree.TypeOf(t, p.ID); ok {
			typ = found
		}
	}
	if typ == "" {
		return nil
	}
	return ptr(m.Rules.CanDropChild(kind, typ))
}

// HoverTab records that the pointer is over tab header tab of the tabbed
// container parentID. The hover is remembered until the gesture ends.
func (m *Machine) HoverTab(s State, parentID string, tab int) State {
	prev, ok := s.(*Dragging)
	if !ok || prev == nil {
		return s
	}
	next := *prev
	next.Tab = &TabHover{ParentID: parentID, Tab: tab}
	return &next
}

// Cancel ends the gesture without emitting any action.
func (m *Machine) Cancel(s State) (State, insert.Outcome) {
	if _, ok := s.(*Dragging); !ok {
		return Idle{}, insert.Outcome{}
	}
	m.Logger.Debug("drag canceled")
	return Idle{}, insert.Outcome{Announce: "Canceled"}
}
