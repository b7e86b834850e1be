package script

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/pagebuilder/pkg/action"
	"github.com/matzehuels/pagebuilder/pkg/dnd"
	"github.com/matzehuels/pagebuilder/pkg/editor"
	"github.com/matzehuels/pagebuilder/pkg/insert"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Entry records what one step produced.
type Entry struct {
	Step     int             `json:"step"`
	Kind     string          `json:"kind"`
	Actions  []action.Action `json:"actions,omitempty"`
	Feedback *dnd.Feedback   `json:"feedback,omitempty"`
	Signals  []string        `json:"signals,omitempty"`
	Rejected bool            `json:"rejected,omitempty"`
	Err      string          `json:"error,omitempty"`
}

// Transcript is the result of a replay.
type Transcript struct {
	Entries []Entry   `json:"entries"`
	Tree    tree.Tree `json:"tree"`
}

// Dispatched returns every action applied during the replay in order.
func (t *Transcript) Dispatched() []action.Action {
	var out []action.Action
	for _, e := range t.Entries {
		if e.Err == "" && !e.Rejected {
			out = append(out, e.Actions...)
		}
	}
	return out
}

// Rejections returns the number of rejected steps.
func (t *Transcript) Rejections() int {
	n := 0
	for _, e := range t.Entries {
		if e.Rejected {
			n++
		}
	}
	return n
}

// Run replays s against doc. Drops go through a [dnd.Controller] built on m
// with doc as its host, so accepted actions land in doc's history.
//
// Rejections and per-step failures such as undo with an empty history are
// recorded in the transcript and do not stop the replay. Run returns an
// error only for an invalid script or a canceled context.
func Run(ctx context.Context, doc *editor.Document, m *dnd.Machine, s *Script) (*Transcript, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ctrl := dnd.NewController(m.WithFlags(doc.Flags()), doc)
	var signals []dnd.Signal
	ctrl.OnSignal = func(sig dnd.Signal) { signals = append(signals, sig) }
	ctrl.OnSelect = func(id string) { doc.Select(id) }

	tr := &Transcript{}
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return tr, err
		}
		signals = signals[:0]
		e := Entry{Step: i + 1, Kind: st.Kind()}
		var out insert.Outcome
		var err error

		switch {
		case st.Start != nil:
			p := st.Start.Payload
			p.Templates = nodes(st.Start.Templates)
			ctrl.Start(ctx, p)
		case st.Move != nil:
			ctrl.Move(*st.Move)
			fb := ctrl.Feedback()
			e.Feedback = &fb
		case st.Tab != nil:
			ctrl.HoverTab(st.Tab.Parent, st.Tab.Tab)
		case st.End != nil:
			out, err = ctrl.End(ctx, *st.End)
		case st.Cancel:
			out = ctrl.Cancel(ctx)
		case st.Insert != nil:
			out, err = runInsert(ctx, ctrl, doc, st.Insert)
		case st.Reorder != nil:
			dir, _ := direction(st.Reorder.Dir)
			_, err = doc.Reorder(ctx, st.Reorder.ID, dir)
		case st.Undo:
			err = doc.Undo(ctx)
		case st.Redo:
			err = doc.Redo(ctx)
		}

		e.Actions = out.Actions
		e.Rejected = !out.OK()
		for _, sig := range signals {
			e.Signals = append(e.Signals, sig.Message)
		}
		if err != nil {
			e.Err = err.Error()
		}
		tr.Entries = append(tr.Entries, e)
	}
	tr.Tree = doc.Tree()
	return tr, nil
}

func runInsert(ctx context.Context, ctrl *dnd.Controller, doc *editor.Document, in *Insert) (insert.Outcome, error) {
	selection := in.Selection
	if selection == nil {
		selection = doc.Selection()
	}
	switch {
	case in.Asset != nil:
		return ctrl.AssetInsert(ctx, *in.Asset, selection, in.Marker)
	case len(in.Templates) > 0:
		return ctrl.LibraryInsert(ctx, nodes(in.Templates), selection, in.Marker)
	}
	return ctrl.PaletteAdd(ctx, in.Type, selection, in.Marker)
}

func direction(s string) (editor.Direction, error) {
	switch strings.ToLower(s) {
	case "up":
		return editor.Up, nil
	case "down":
		return editor.Down, nil
	}
	return 0, fmt.Errorf("reorder direction %q is not up or down", s)
}

// WriteText writes a human-readable transcript, one line per step followed
// by indented actions and signals.
func (t *Transcript) WriteText(w io.Writer) error {
	for _, e := range t.Entries {
		line := strconv.Itoa(e.Step) + " " + e.Kind
		if e.Feedback != nil {
			line += " " + describeFeedback(*e.Feedback)
		}
		if e.Rejected {
			line += " (rejected)"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		for _, a := range e.Actions {
			if _, err := fmt.Fprintf(w, "  %v\n", a); err != nil {
				return err
			}
		}
		for _, s := range e.Signals {
			if _, err := fmt.Fprintf(w, "  %q\n", s); err != nil {
				return err
			}
		}
		if e.Err != "" {
			if _, err := fmt.Fprintf(w, "  error: %s\n", e.Err); err != nil {
				return err
			}
		}
	}
	return nil
}

func describeFeedback(fb dnd.Feedback) string {
	parts := []string{"over=" + orDash(fb.HoverID)}
	if fb.InsertIndex != nil {
		parent := fb.InsertParentID
		if parent == "" {
			parent = "root"
		}
		parts = append(parts, fmt.Sprintf("insert=%s[%d]", parent, *fb.InsertIndex))
	}
	allowed := "?"
	if fb.DropAllowed != nil {
		allowed = strconv.FormatBool(*fb.DropAllowed)
	}
	parts = append(parts, "allowed="+allowed)
	if fb.SnapX != nil && fb.SnapY != nil {
		parts = append(parts, fmt.Sprintf("snap=%g,%g", *fb.SnapX, *fb.SnapY))
	}
	return strings.Join(parts, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
