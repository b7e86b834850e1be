package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagebuilder/pkg/observability"
)

// logHooks reports observability events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks routes every hook category to logger.
func registerLogHooks(logger *log.Logger) {
	h := &logHooks{logger: logger.WithPrefix("hooks")}
	observability.SetDragHooks(h)
	observability.SetDocumentHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnDragStart(_ context.Context, from, typ string) {
	h.logger.Debug("drag start", "from", from, "type", typ)
}

func (h *logHooks) OnDrop(_ context.Context, from, typ string, actions int) {
	h.logger.Debug("drop", "from", from, "type", typ, "actions", actions)
}

func (h *logHooks) OnReject(_ context.Context, from, typ, code string) {
	h.logger.Debug("drop rejected", "from", from, "type", typ, "code", code)
}

func (h *logHooks) OnCancel(_ context.Context, from string) {
	h.logger.Debug("drag canceled", "from", from)
}

func (h *logHooks) OnDispatch(_ context.Context, pageID string, actions int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("dispatch failed", "page", pageID, "actions", actions, "err", err)
		return
	}
	h.logger.Debug("dispatch", "page", pageID, "actions", actions, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnUndo(_ context.Context, pageID string) {
	h.logger.Debug("undo", "page", pageID)
}

func (h *logHooks) OnRedo(_ context.Context, pageID string) {
	h.logger.Debug("redo", "page", pageID)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "took", d.Round(time.Microsecond))
}
