package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pagebuilder/pkg/action"
	"github.com/matzehuels/pagebuilder/pkg/buildinfo"
	"github.com/matzehuels/pagebuilder/pkg/dnd"
	"github.com/matzehuels/pagebuilder/pkg/editor"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/insert"
	pbio "github.com/matzehuels/pagebuilder/pkg/io"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// pageView is the response body of page endpoints.
type pageView struct {
	ID        string           `json:"id"`
	Tree      tree.Tree        `json:"tree"`
	CanUndo   bool             `json:"canUndo"`
	CanRedo   bool             `json:"canRedo"`
	Selection []string         `json:"selection"`
	Editor    tree.EditorFlags `json:"editor,omitempty"`
}

func viewOf(doc *editor.Document) pageView {
	h := doc.History()
	sel := doc.Selection()
	if sel == nil {
		sel = []string{}
	}
	return pageView{
		ID:        doc.ID(),
		Tree:      h.Present,
		CanUndo:   h.CanUndo(),
		CanRedo:   h.CanRedo(),
		Selection: sel,
		Editor:    h.Editor,
	}
}

// outcomeView is the response body of drop and insert requests.
type outcomeView struct {
	Actions  action.List `json:"actions"`
	Select   string      `json:"select,omitempty"`
	Announce string      `json:"announce,omitempty"`
	Page     pageView    `json:"page"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	table := s.machine.Rules
	out := make(map[tree.ParentKind][]tree.Type)
	for _, k := range table.Kinds() {
		out[k] = table.AllowedChildren(k)
	}
	s.write(w, r, http.StatusOK, out)
}

type kindView struct {
	Kind      tree.ParentKind `json:"kind"`
	Container bool            `json:"container"`
	Tabbed    bool            `json:"tabbed"`
	Allowed   []tree.Type     `json:"allowed"`
}

func (s *Server) handleRuleKind(w http.ResponseWriter, r *http.Request) {
	table := s.machine.Rules
	kind := tree.ParentKind(chi.URLParam(r, "kind"))
	if strings.EqualFold(string(kind), string(tree.RootKind)) {
		kind = tree.RootKind
	}
	for _, k := range table.Kinds() {
		if k != kind {
			continue
		}
		typ := tree.Type(k)
		s.write(w, r, http.StatusOK, kindView{
			Kind:      k,
			Container: !k.IsRoot() && table.IsContainer(typ),
			Tabbed:    !k.IsRoot() && table.IsTabbed(typ),
			Allowed:   table.AllowedChildren(k),
		})
		return
	}
	s.writeError(w, r, perrors.New(perrors.ErrCodeNotFound, "No placement rules for %s", kind))
}

// withPage looks up the page named in the URL and runs fn holding its
// request lock.
func (s *Server) withPage(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, doc *editor.Document) error) {
	p, err := s.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := fn(r.Context(), p.doc); err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	s.withPage(w, r, func(_ context.Context, doc *editor.Document) error {
		s.write(w, r, http.StatusOK, viewOf(doc))
		return nil
	})
}

func (s *Server) handlePutPage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	in, err := pbio.ReadJSON(r.Body, s.opts.Validate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, created, err := s.put(r.Context(), chi.URLParam(r, "id"), in.Components)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.write(w, r, status, viewOf(p.doc))
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	var actions action.List
	if err := decodeBody(w, r, &actions); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withPage(w, r, func(ctx context.Context, doc *editor.Document) error {
		if err := doc.Dispatch(ctx, actions...); err != nil {
			return err
		}
		s.write(w, r, http.StatusOK, viewOf(doc))
		return nil
	})
}

type insertRequest struct {
	Type      tree.Type      `json:"type,omitempty"`
	Templates tree.Tree      `json:"templates,omitempty"`
	Asset     *insert.Asset  `json:"asset,omitempty"`
	Selection []string       `json:"selection,omitempty"`
	Marker    *insert.Target `json:"marker,omitempty"`
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withPage(w, r, func(ctx context.Context, doc *editor.Document) error {
		ctrl := s.controller(doc)
		selection := req.Selection
		if selection == nil {
			selection = doc.Selection()
		}
		var out insert.Outcome
		var err error
		switch {
		case req.Asset != nil:
			if err := perrors.ValidateURL(req.Asset.URL); err != nil {
				return err
			}
			out, err = ctrl.AssetInsert(ctx, *req.Asset, selection, req.Marker)
		case len(req.Templates) > 0:
			out, err = ctrl.LibraryInsert(ctx, req.Templates, selection, req.Marker)
		case req.Type != "":
			out, err = ctrl.PaletteAdd(ctx, req.Type, selection, req.Marker)
		default:
			return perrors.New(perrors.ErrCodeInvalidInput, "Insert needs a type, templates or an asset")
		}
		return s.writeOutcome(w, r, doc, out, err)
	})
}

type dropRequest struct {
	Payload   dnd.Payload     `json:"payload"`
	Templates tree.Tree       `json:"templates,omitempty"`
	Moves     []dnd.MoveEvent `json:"moves,omitempty"`
	Tab       *dnd.TabHover   `json:"tab,omitempty"`
	Over      *dnd.Over       `json:"over"`
}

// handleDrop replays a complete gesture: start, the recorded moves, an
// optional tab hover and the release.
func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.Payload.From.Valid() {
		s.writeError(w, r, perrors.New(perrors.ErrCodeInvalidInput, "Unknown drag source %q", req.Payload.From))
		return
	}
	s.withPage(w, r, func(ctx context.Context, doc *editor.Document) error {
		ctrl := s.controller(doc)
		p := req.Payload
		p.Templates = req.Templates
		ctrl.Start(ctx, p)
		for _, ev := range req.Moves {
			ctrl.Move(ev)
		}
		if req.Tab != nil {
			ctrl.HoverTab(req.Tab.ParentID, req.Tab.Tab)
		}
		out, err := ctrl.End(ctx, dnd.EndEvent{Over: req.Over})
		return s.writeOutcome(w, r, doc, out, err)
	})
}

func (s *Server) controller(doc *editor.Document) *dnd.Controller {
	ctrl := dnd.NewController(s.machine.WithFlags(doc.Flags()), doc)
	ctrl.OnSelect = func(id string) { doc.Select(id) }
	return ctrl
}

func (s *Server) writeOutcome(w http.ResponseWriter, r *http.Request, doc *editor.Document, out insert.Outcome, err error) error {
	if err != nil {
		return err
	}
	if !out.OK() {
		return out.Rejected
	}
	s.write(w, r, http.StatusOK, outcomeView{
		Actions:  out.Actions,
		Select:   out.Select,
		Announce: out.Announce,
		Page:     viewOf(doc),
	})
	return nil
}

type reorderRequest struct {
	ID  string `json:"id"`
	Dir string `json:"dir"`
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var dir editor.Direction
	switch req.Dir {
	case "up":
		dir = editor.Up
	case "down":
		dir = editor.Down
	default:
		s.writeError(w, r, perrors.New(perrors.ErrCodeInvalidInput, "Direction must be up or down"))
		return
	}
	s.withPage(w, r, func(ctx context.Context, doc *editor.Document) error {
		if _, err := doc.Reorder(ctx, req.ID, dir); err != nil {
			return err
		}
		s.write(w, r, http.StatusOK, viewOf(doc))
		return nil
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.withPage(w, r, func(ctx context.Context, doc *editor.Document) error {
		if err := doc.Undo(ctx); err != nil {
			return err
		}
		s.write(w, r, http.StatusOK, viewOf(doc))
		return nil
	})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.withPage(w, r, func(ctx context.Context, doc *editor.Document) error {
		if err := doc.Redo(ctx); err != nil {
			return err
		}
		s.write(w, r, http.StatusOK, viewOf(doc))
		return nil
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.withPage(w, r, func(ctx context.Context, doc *editor.Document) error {
		if err := doc.Save(ctx); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if err := decodeBody(w, r, &ids); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withPage(w, r, func(_ context.Context, doc *editor.Document) error {
		doc.Select(ids...)
		s.write(w, r, http.StatusOK, viewOf(doc))
		return nil
	})
}

func (s *Server) handleFlags(w http.ResponseWriter, r *http.Request) {
	var flags tree.NodeFlags
	if err := decodeBody(w, r, &flags); err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, vp := range flags.Hidden {
		if vp == "" || !vp.Valid() {
			s.writeError(w, r, perrors.New(perrors.ErrCodeInvalidInput, "Unknown viewport %q", vp))
			return
		}
	}
	s.withPage(w, r, func(ctx context.Context, doc *editor.Document) error {
		if err := doc.SetFlags(ctx, chi.URLParam(r, "node"), flags); err != nil {
			return err
		}
		s.write(w, r, http.StatusOK, viewOf(doc))
		return nil
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.withPage(w, r, func(ctx context.Context, doc *editor.Document) error {
		if err := doc.ClearHistory(ctx); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}
