package dnd

import (
	"context"

	"github.com/matzehuels/pagebuilder/pkg/action"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/insert"
	"github.com/matzehuels/pagebuilder/pkg/observability"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Host owns the document a [Controller] edits.
type Host interface {
	Tree() tree.Tree
	Dispatch(ctx context.Context, actions ...action.Action) error
}

// Signal is a transient message for the host to show, such as a rejection
// or an announcement.
type Signal struct {
	Message  string
	Rejected bool
	Err      error
}

// Controller drives a [Machine] for an imperative host. It holds the
// current state, forwards accepted actions to the host and reports
// rejections and announcements through OnSignal. It is not safe for
// concurrent use; one gesture is active at a time.
type Controller struct {
	Machine *Machine
	Host    Host

	// OnSignal receives rejections and announcements. May be nil.
	OnSignal func(Signal)
	// OnSelect receives the id to select after an insertion. May be nil.
	OnSelect func(id string)

	state State
}

// NewController returns a controller in the idle state.
func NewController(m *Machine, host Host) *Controller {
	return &Controller{Machine: m, Host: host, state: Idle{}}
}

// State returns the current state.
func (c *Controller) State() State {
	if c.state == nil {
		return Idle{}
	}
	return c.state
}

// Feedback returns the host-facing view of the current state.
func (c *Controller) Feedback() Feedback { return FeedbackOf(c.State()) }

// Start begins a gesture. A canvas payload without a type hint gets the
// moving node's current type.
func (c *Controller) Start(ctx context.Context, p Payload) {
	if p.From == FromCanvas && p.Type == "" {
		if typ, ok := tree.TypeOf(c.Host.Tree(), p.ID); ok {
			p.Type = typ
		}
	}
	c.state = c.Machine.Start(p)
	observability.Drag().OnDragStart(ctx, string(p.From), string(p.ActiveType()))
}

// Move advances the gesture with a pointer move.
func (c *Controller) Move(ev MoveEvent) {
	c.state = c.Machine.Move(c.State(), c.Host.Tree(), ev)
}

// HoverTab records a tab header hover.
func (c *Controller) HoverTab(parentID string, tab int) {
	c.state = c.Machine.HoverTab(c.State(), parentID, tab)
}

// Cancel aborts the gesture.
func (c *Controller) Cancel(ctx context.Context) insert.Outcome {
	d, dragging := c.state.(*Dragging)
	var out insert.Outcome
	c.state, out = c.Machine.Cancel(c.State())
	if dragging {
		observability.Drag().OnCancel(ctx, string(d.Payload.From))
		c.signal(Signal{Message: out.Announce})
	}
	return out
}

// End finalizes the gesture and dispatches its actions. A rejected drop is
// reported through OnSignal and is not an error; the returned error is the
// host's dispatch error, if any.
func (c *Controller) End(ctx context.Context, ev EndEvent) (insert.Outcome, error) {
	d, dragging := c.state.(*Dragging)
	var out insert.Outcome
	c.state, out = c.Machine.End(c.State(), c.Host.Tree(), ev)
	if !dragging {
		return out, nil
	}
	return out, c.apply(ctx, string(d.Payload.From), string(d.Payload.ActiveType()), out)
}

// PaletteAdd inserts a new node of type typ at the target computed from the
// selection or marker.
func (c *Controller) PaletteAdd(ctx context.Context, typ tree.Type, selection []string, marker *insert.Target) (insert.Outcome, error) {
	t := c.Host.Tree()
	target := insert.TargetFor(t, c.Machine.Rules, typ, selection, marker)
	out := c.Machine.Inserter().Palette(t, typ, target)
	return out, c.apply(ctx, string(FromPalette), string(typ), out)
}

// LibraryInsert clones templates at the target computed from the selection
// or marker.
func (c *Controller) LibraryInsert(ctx context.Context, templates []tree.Node, selection []string, marker *insert.Target) (insert.Outcome, error) {
	t := c.Host.Tree()
	var typ tree.Type
	if len(templates) > 0 && templates[0] != nil {
		typ = templates[0].NodeType()
	}
	target := insert.TargetFor(t, c.Machine.Rules, typ, selection, marker)
	out := c.Machine.Inserter().Library(t, templates, target)
	return out, c.apply(ctx, string(FromLibrary), string(typ), out)
}

// AssetInsert places an Image or Video block for a.
func (c *Controller) AssetInsert(ctx context.Context, a insert.Asset, selection []string, marker *insert.Target) (insert.Outcome, error) {
	t := c.Host.Tree()
	target := insert.TargetFor(t, c.Machine.Rules, a.Type(), selection, marker)
	out := c.Machine.Inserter().Asset(t, a, target)
	return out, c.apply(ctx, "asset", string(a.Type()), out)
}

func (c *Controller) apply(ctx context.Context, from, typ string, out insert.Outcome) error {
	if !out.OK() {
		observability.Drag().OnReject(ctx, from, typ, string(perrors.GetCode(out.Rejected)))
		c.signal(Signal{Message: out.Rejection(), Rejected: true, Err: out.Rejected})
		return nil
	}
	if len(out.Actions) == 0 {
		return nil
	}
	if err := c.Host.Dispatch(ctx, out.Actions...); err != nil {
		c.signal(Signal{Message: perrors.UserMessage(err), Rejected: true, Err: err})
		return err
	}
	observability.Drag().OnDrop(ctx, from, typ, len(out.Actions))
	if out.Select != "" && c.OnSelect != nil {
		c.OnSelect(out.Select)
	}
	if out.Announce != "" {
		c.signal(Signal{Message: out.Announce})
	}
	return nil
}

func (c *Controller) signal(s Signal) {
	if c.OnSignal != nil && s.Message != "" {
		c.OnSignal(s)
	}
}
