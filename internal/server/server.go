// Package server exposes page documents over an HTTP JSON API.
//
// Every page is an [editor.Document] kept in memory for the lifetime of the
// server and persisted through an optional [editor.Store]. Drops and
// click-to-insert requests run through a [dnd.Controller] with the
// document as its host, so the HTTP API applies exactly the same placement
// rules as an interactive editor.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/rules
//	GET    /api/rules/{kind}
//	GET    /api/pages/{id}
//	PUT    /api/pages/{id}
//	POST   /api/pages/{id}/actions
//	POST   /api/pages/{id}/insert
//	POST   /api/pages/{id}/drop
//	POST   /api/pages/{id}/reorder
//	POST   /api/pages/{id}/undo
//	POST   /api/pages/{id}/redo
//	POST   /api/pages/{id}/save
//	PUT    /api/pages/{id}/selection
//	PUT    /api/pages/{id}/flags/{node}
//	DELETE /api/pages/{id}/history
//
// Page responses are JSON unless the request accepts application/msgpack.
// Errors are JSON objects {"code", "message"} carrying an errors.Code.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pagebuilder/pkg/dnd"
	"github.com/matzehuels/pagebuilder/pkg/editor"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Options configures a [Server].
type Options struct {
	// Machine configures the drag machine used for drops and inserts.
	Machine dnd.Options
	// Store persists histories and saved pages. Nil keeps pages in memory.
	Store      *editor.Store
	MaxHistory int
	Validate   tree.ValidateOptions
	Logger     *log.Logger
}

// Server serves the page API.
type Server struct {
	machine *dnd.Machine
	store   *editor.Store
	opts    Options
	logger  *log.Logger
	router  chi.Router

	mu    sync.Mutex
	pages map[string]*page
}

// page serializes requests that read and then write a document.
type page struct {
	mu  sync.Mutex
	doc *editor.Document
}

// New returns a server for opts.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Machine.Logger == nil {
		opts.Machine.Logger = logger
	}
	s := &Server{
		machine: dnd.NewMachine(opts.Machine),
		store:   opts.Store,
		opts:    opts,
		logger:  logger,
		pages:   make(map[string]*page),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler of s.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/rules", s.handleRules)
		r.Get("/rules/{kind}", s.handleRuleKind)

		r.Route("/pages/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetPage)
			r.Put("/", s.handlePutPage)
			r.Post("/actions", s.handleActions)
			r.Post("/insert", s.handleInsert)
			r.Post("/drop", s.handleDrop)
			r.Post("/reorder", s.handleReorder)
			r.Post("/undo", s.handleUndo)
			r.Post("/redo", s.handleRedo)
			r.Post("/save", s.handleSave)
			r.Put("/selection", s.handleSelection)
			r.Put("/flags/{node}", s.handleFlags)
			r.Delete("/history", s.handleClearHistory)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) docOptions() editor.Options {
	return editor.Options{
		Store:      s.store,
		MaxHistory: s.opts.MaxHistory,
		Validate:   s.opts.Validate,
		Rules:      s.machine.Rules,
		Logger:     s.logger,
	}
}

// lookup returns the open page id, opening it from the store if it was
// persisted by an earlier run.
func (s *Server) lookup(ctx context.Context, id string) (*page, error) {
	if err := perrors.ValidatePageID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pages[id]; ok {
		return p, nil
	}
	if s.store == nil {
		return nil, perrors.New(perrors.ErrCodePageNotFound, "Page %s not found", id)
	}
	ok, err := s.store.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perrors.New(perrors.ErrCodePageNotFound, "Page %s not found", id)
	}
	doc, err := editor.Open(ctx, id, nil, s.docOptions())
	if err != nil {
		return nil, err
	}
	p := &page{doc: doc}
	s.pages[id] = p
	return p, nil
}

// put replaces the tree of page id, creating the page when it does not
// exist. It reports whether the page was created.
func (s *Server) put(ctx context.Context, id string, t tree.Tree) (*page, bool, error) {
	p, err := s.lookup(ctx, id)
	if err == nil {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p, false, p.doc.Replace(ctx, t)
	}
	if !perrors.Is(err, perrors.ErrCodePageNotFound) {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pages[id]; ok {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p, false, p.doc.Replace(ctx, t)
	}
	doc, err := editor.Open(ctx, id, t, s.docOptions())
	if err != nil {
		return nil, false, err
	}
	if err := doc.Save(ctx); err != nil {
		return nil, false, err
	}
	p = &page{doc: doc}
	s.pages[id] = p
	s.logger.Info("page created", "page", id, "nodes", tree.Count(doc.Tree()))
	return p, true, nil
}
