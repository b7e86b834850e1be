package autoscroll

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagebuilder/pkg/geom"
)

func TestSpeed(t *testing.T) {
	tests := []struct {
		dist float64
		want float64
	}{
		{-10, 28},
		{0, 28},
		{24, 14},
		{47, 1},
		{48, 0},
		{100, 0},
	}
	for _, tt := range tests {
		if got := Speed(tt.dist, 48, 28); got != tt.want {
			t.Errorf("Speed(%v) = %v, want %v", tt.dist, got, tt.want)
		}
	}
}

func TestDelta(t *testing.T) {
	r := geom.Rect{Left: 0, Top: 0, Width: 400, Height: 300}
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		p      geom.Point
		dx, dy float64
	}{
		{"center", geom.Point{X: 200, Y: 150}, 0, 0},
		{"exactly edge away", geom.Point{X: 48, Y: 48}, 0, 0},
		{"top band", geom.Point{X: 200, Y: 10}, 0, -23},
		{"bottom band", geom.Point{X: 200, Y: 290}, 0, 23},
		{"left band", geom.Point{X: 0, Y: 150}, -28, 0},
		{"right band", geom.Point{X: 376, Y: 150}, 14, 0},
		{"corner", geom.Point{X: 0, Y: 0}, -28, -28},
		{"above viewport saturates", geom.Point{X: 200, Y: -50}, 0, -28},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := Delta(cfg, r, tt.p)
			if dx != tt.dx || dy != tt.dy {
				t.Errorf("Delta(%v) = (%v, %v), want (%v, %v)", tt.p, dx, dy, tt.dx, tt.dy)
			}
		})
	}
}

func TestDeltaZeroOutsideBands(t *testing.T) {
	r := geom.Rect{Left: 0, Top: 0, Width: 400, Height: 300}
	for x := 48.0; x <= 352; x += 8 {
		for y := 48.0; y <= 252; y += 8 {
			if dx, dy := Delta(DefaultConfig(), r, geom.Point{X: x, Y: y}); dx != 0 || dy != 0 {
				t.Fatalf("Delta(%v, %v) = (%v, %v), want 0", x, y, dx, dy)
			}
		}
	}
}

func TestDeltaEmptyViewport(t *testing.T) {
	for _, r := range []geom.Rect{{}, {Width: 400}, {Height: 300}} {
		if dx, dy := Delta(DefaultConfig(), r, geom.Point{}); dx != 0 || dy != 0 {
			t.Errorf("Delta(%+v) = (%v, %v), want 0", r, dx, dy)
		}
	}
}

type fakeViewport struct {
	bounds    geom.Rect
	available bool
	err       error
	calls     int
	dx, dy    float64
}

func (f *fakeViewport) Bounds() (geom.Rect, bool) { return f.bounds, f.available }

func (f *fakeViewport) ScrollBy(dx, dy float64) error {
	f.calls++
	f.dx, f.dy = dx, dy
	return f.err
}

func TestControllerTick(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	c := New(Config{}, logger)

	vp := &fakeViewport{bounds: geom.Rect{Width: 400, Height: 300}, available: true}
	if dx, dy := c.Tick(vp, geom.Point{X: 200, Y: 5}); dx != 0 || dy != -26 {
		t.Errorf("Tick() = (%v, %v), want (0, -26)", dx, dy)
	}
	if vp.calls != 1 || vp.dy != -26 {
		t.Errorf("ScrollBy calls = %d dy = %v, want 1, -26", vp.calls, vp.dy)
	}

	vp.calls = 0
	c.Tick(vp, geom.Point{X: 200, Y: 150})
	if vp.calls != 0 {
		t.Errorf("ScrollBy called %d times outside bands", vp.calls)
	}
}

func TestControllerTickFailuresAreSwallowed(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	c := New(DefaultConfig(), logger)

	if dx, dy := c.Tick(nil, geom.Point{}); dx != 0 || dy != 0 {
		t.Errorf("Tick(nil) = (%v, %v), want 0", dx, dy)
	}

	gone := &fakeViewport{}
	c.Tick(gone, geom.Point{})
	if gone.calls != 0 {
		t.Error("ScrollBy called on unavailable viewport")
	}
	if !strings.Contains(buf.String(), "viewport unavailable") {
		t.Errorf("log = %q, want unavailable message", buf.String())
	}

	broken := &fakeViewport{bounds: geom.Rect{Width: 100, Height: 100}, available: true, err: errors.New("detached")}
	if dx, dy := c.Tick(broken, geom.Point{X: 50, Y: 1}); dx != 0 || dy != 0 {
		t.Errorf("Tick(broken) = (%v, %v), want 0", dx, dy)
	}
	if !strings.Contains(buf.String(), "detached") {
		t.Errorf("log = %q, want scroll error", buf.String())
	}
}
