package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagebuilder/pkg/observability"
)

func TestSetLogLevelRegistersHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	c.SetLogLevel(log.InfoLevel)
	observability.Drag().OnDragStart(context.Background(), "palette", "Text")
	if buf.Len() != 0 {
		t.Fatalf("info level logged hook output: %q", buf.String())
	}

	c.SetLogLevel(log.DebugLevel)
	ctx := context.Background()
	observability.Drag().OnDrop(ctx, "palette", "Text", 1)
	observability.Document().OnUndo(ctx, "home")
	observability.Cache().OnCacheMiss(ctx, "history")

	out := buf.String()
	for _, want := range []string{"drop", "undo", "cache miss", "hooks"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
