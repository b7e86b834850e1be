package editor

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagebuilder/pkg/action"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/observability"
	"github.com/matzehuels/pagebuilder/pkg/rules"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// DefaultMaxHistory is the default number of undo steps kept.
const DefaultMaxHistory = 100

// Options configures [Open].
type Options struct {
	// Store persists the history. Nil keeps the history in memory only.
	Store *Store
	// MaxHistory bounds the undo stack; 0 means [DefaultMaxHistory].
	MaxHistory int
	// Validate configures the checks applied to loaded and replaced trees.
	Validate tree.ValidateOptions
	// Rules rejects dispatches that misplace a node. Nil skips placement
	// checks.
	Rules  *rules.Table
	Logger *log.Logger
}

// Document is the editing state of one page. It is safe for concurrent use.
type Document struct {
	mu        sync.Mutex
	id        string
	hist      *History
	selection []string
	opts      Options
	logger    *log.Logger
}

// Open returns the document of pageID. A valid stored history takes
// precedence over a saved page, which takes precedence over initial. Stored
// values that fail validation are logged and ignored.
func Open(ctx context.Context, pageID string, initial tree.Tree, opts Options) (*Document, error) {
	if err := perrors.ValidatePageID(pageID); err != nil {
		return nil, err
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = DefaultMaxHistory
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	d := &Document{id: pageID, opts: opts, logger: logger}

	initial = tree.Normalize(initial, opts.Validate)
	if err := tree.Validate(initial, opts.Validate); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidTree, err, "initial tree of %s is invalid", pageID)
	}
	d.hist = NewHistory(initial)

	if opts.Store == nil {
		return d, nil
	}
	if h := d.restore(ctx); h != nil {
		d.hist = h
		return d, nil
	}
	saved, err := opts.Store.LoadPage(ctx, pageID)
	if err != nil {
		logger.Warn("ignoring saved page", "page", pageID, "err", err)
	} else if saved != nil {
		saved = tree.Normalize(saved, opts.Validate)
		if err := tree.Validate(saved, opts.Validate); err != nil {
			logger.Warn("ignoring saved page", "page", pageID, "err", err)
		} else {
			d.hist = NewHistory(saved)
		}
	}
	return d, nil
}

func (d *Document) restore(ctx context.Context) *History {
	h, err := d.opts.Store.Load(ctx, d.id)
	if err != nil {
		d.logger.Warn("ignoring stored history", "page", d.id, "err", err)
		return nil
	}
	if h == nil {
		return nil
	}
	h.migrate(d.opts.Validate)
	if err := h.Validate(d.opts.Validate); err != nil {
		d.logger.Warn("ignoring stored history", "page", d.id, "err", err)
		return nil
	}
	d.logger.Debug("history restored", "page", d.id, "undo", len(h.Past), "redo", len(h.Future))
	return h
}

// ID returns the page id.
func (d *Document) ID() string { return d.id }

// Tree returns the current tree. The returned tree is an immutable snapshot.
func (d *Document) Tree() tree.Tree {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hist.Present
}

// History returns a copy of the history. Trees are shared.
func (d *Document) History() History {
	d.mu.Lock()
	defer d.mu.Unlock()
	return History{
		Past:     slices.Clone(d.hist.Past),
		Present:  d.hist.Present,
		Future:   slices.Clone(d.hist.Future),
		GridCols: d.hist.GridCols,
		Editor:   cloneFlags(d.hist.Editor),
	}
}

// Dispatch applies actions as one undo step. Either every action applies or
// the document is left unchanged.
func (d *Document) Dispatch(ctx context.Context, actions ...action.Action) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dispatch(ctx, actions)
}

// dispatch is Dispatch without locking. Callers hold d.mu.
func (d *Document) dispatch(ctx context.Context, actions []action.Action) error {
	start := time.Now()
	next, err := action.ApplyAll(d.hist.Present, actions...)
	if err == nil {
		err = d.check(next)
	}
	observability.Document().OnDispatch(ctx, d.id, len(actions), time.Since(start), err)
	if err != nil {
		d.logger.Debug("dispatch failed", "page", d.id, "actions", len(actions), "err", err)
		return err
	}
	if len(actions) == 0 {
		return nil
	}
	d.commit(next)
	d.logger.Debug("dispatched", "page", d.id, "actions", len(actions), "nodes", tree.Count(next))
	d.persist(ctx)
	return nil
}

// check validates the result of a dispatch. Placement violations already
// present in the current tree are tolerated.
func (d *Document) check(next tree.Tree) error {
	if err := tree.Validate(next, d.opts.Validate); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidTree, err, "dispatch on %s", d.id)
	}
	if d.opts.Rules == nil {
		return nil
	}
	type placement struct {
		id     string
		parent tree.ParentKind
	}
	known := make(map[placement]bool)
	for _, v := range d.opts.Rules.Violations(d.hist.Present) {
		known[placement{v.NodeID, v.Err.Parent}] = true
	}
	var errs []error
	for _, v := range d.opts.Rules.Violations(next) {
		if !known[placement{v.NodeID, v.Err.Parent}] {
			errs = append(errs, v)
		}
	}
	if len(errs) > 0 {
		return perrors.Wrap(perrors.ErrCodeInvalidPlacement, errors.Join(errs...), "dispatch on %s", d.id)
	}
	return nil
}

// Replace sets t as the present tree, recording an undo step.
func (d *Document) Replace(ctx context.Context, t tree.Tree) error {
	t = tree.Normalize(t, d.opts.Validate)
	if err := tree.Validate(t, d.opts.Validate); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidTree, err, "replace %s", d.id)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commit(t)
	d.persist(ctx)
	return nil
}

// commit pushes the present onto the past stack and makes next the present.
// Callers hold d.mu.
func (d *Document) commit(next tree.Tree) {
	d.hist.Past = append(d.hist.Past, d.hist.Present)
	if over := len(d.hist.Past) - d.opts.MaxHistory; over > 0 {
		d.hist.Past = slices.Delete(d.hist.Past, 0, over)
	}
	d.hist.Present = next
	d.hist.Future = []tree.Tree{}
	d.prune()
}

// Undo restores the previous tree.
func (d *Document) Undo(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hist.CanUndo() {
		return perrors.New(perrors.ErrCodeNothingToUndo, "Nothing to undo")
	}
	last := len(d.hist.Past) - 1
	d.hist.Future = append([]tree.Tree{d.hist.Present}, d.hist.Future...)
	d.hist.Present = d.hist.Past[last]
	d.hist.Past = d.hist.Past[:last:last]
	d.prune()
	observability.Document().OnUndo(ctx, d.id)
	d.persist(ctx)
	return nil
}

// Redo reapplies the last undone tree.
func (d *Document) Redo(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hist.CanRedo() {
		return perrors.New(perrors.ErrCodeNothingToRedo, "Nothing to redo")
	}
	d.hist.Past = append(d.hist.Past, d.hist.Present)
	d.hist.Present = d.hist.Future[0]
	d.hist.Future = slices.Clone(d.hist.Future[1:])
	d.prune()
	observability.Document().OnRedo(ctx, d.id)
	d.persist(ctx)
	return nil
}

// Direction is a keyboard reorder direction.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// Reorder moves node id one position up or down among its siblings. It
// reports false when the node is already at that end of the list.
func (d *Document) Reorder(ctx context.Context, id string, dir Direction) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	loc, ok := tree.Locate(d.hist.Present, id)
	if !ok {
		return false, perrors.New(perrors.ErrCodeNotFound, "Component %s not found", id)
	}
	siblings, _ := tree.ChildrenOf(d.hist.Present, loc.ParentID)
	to := min(max(loc.Index+int(dir), 0), max(len(siblings)-1, 0))
	if to == loc.Index {
		return false, nil
	}
	err := d.dispatch(ctx, []action.Action{action.Move{
		From: loc,
		To:   action.Location{ParentID: loc.ParentID, Index: to},
	}})
	return err == nil, err
}

// Select replaces the selection. Unknown ids are dropped.
func (d *Document) Select(ids ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection = d.selection[:0]
	for _, id := range ids {
		if tree.FindByID(d.hist.Present, id) != nil && !slices.Contains(d.selection, id) {
			d.selection = append(d.selection, id)
		}
	}
}

// Selection returns the selected ids in selection order.
func (d *Document) Selection() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.selection)
}

// Flags returns a copy of the editor flags.
func (d *Document) Flags() tree.EditorFlags {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneFlags(d.hist.Editor)
}

// SetFlags replaces the editor flags of node id. Flag changes are not undo
// steps.
func (d *Document) SetFlags(ctx context.Context, id string, f tree.NodeFlags) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if tree.FindByID(d.hist.Present, id) == nil {
		return perrors.New(perrors.ErrCodeNotFound, "Component %s not found", id)
	}
	d.hist.Editor[id] = f
	d.persist(ctx)
	return nil
}

// Save stores the present tree as the saved version of the page.
func (d *Document) Save(ctx context.Context) error {
	if d.opts.Store == nil {
		return nil
	}
	return d.opts.Store.SavePage(ctx, d.id, d.Tree())
}

// ClearHistory drops the undo and redo stacks and the stored history.
func (d *Document) ClearHistory(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hist.Past = []tree.Tree{}
	d.hist.Future = []tree.Tree{}
	if d.opts.Store == nil {
		return nil
	}
	return d.opts.Store.Clear(ctx, d.id)
}

// prune drops selection entries of nodes that left the present tree. Flags
// are kept so that undo restores them. Callers hold d.mu.
func (d *Document) prune() {
	d.selection = slices.DeleteFunc(d.selection, func(id string) bool {
		return tree.FindByID(d.hist.Present, id) == nil
	})
}

// persist saves the history. Persistence failures never fail an edit.
// Callers hold d.mu.
func (d *Document) persist(ctx context.Context) {
	if d.opts.Store == nil {
		return
	}
	if err := d.opts.Store.Save(ctx, d.id, d.hist); err != nil {
		d.logger.Warn("history not saved", "page", d.id, "err", err)
	}
}

func cloneFlags(f tree.EditorFlags) tree.EditorFlags {
	out := make(tree.EditorFlags, len(f))
	for k, v := range f {
		v.Hidden = slices.Clone(v.Hidden)
		out[k] = v
	}
	return out
}
