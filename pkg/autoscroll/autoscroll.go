// Package autoscroll scrolls a viewport while a drag pointer is held near
// one of its edges.
//
// Each axis is handled independently. Inside an edge band of width
// [Config.Edge] the scroll speed grows linearly with how far the pointer has
// entered the band and saturates at [Config.MaxSpeed] at the edge itself;
// outside every band the speed is zero.
//
// Scrolling is best effort: a missing viewport, unknown bounds, or a failed
// scroll call is logged at debug level and otherwise ignored, so autoscroll
// can never abort a drag.
package autoscroll

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagebuilder/pkg/geom"
)

// Defaults for [Config].
const (
	DefaultEdge     = 48
	DefaultMaxSpeed = 28
)

// Config holds the edge band width and maximum speed, both in pixels (speed
// is pixels per move tick).
type Config struct {
	Edge     float64 `toml:"edge" json:"edge"`
	MaxSpeed float64 `toml:"max_speed" json:"maxSpeed"`
}

// DefaultConfig returns the default 48px band and 28px/tick speed.
func DefaultConfig() Config {
	return Config{Edge: DefaultEdge, MaxSpeed: DefaultMaxSpeed}
}

func (c Config) withDefaults() Config {
	if c.Edge <= 0 {
		c.Edge = DefaultEdge
	}
	if c.MaxSpeed <= 0 {
		c.MaxSpeed = DefaultMaxSpeed
	}
	return c
}

// Speed returns the scroll speed for a pointer dist pixels inside the
// viewport from one edge. Negative distances count as 0.
func Speed(dist, edge, maxSpeed float64) float64 {
	if edge <= 0 {
		return 0
	}
	within := math.Max(0, edge-math.Max(0, dist))
	if within == 0 {
		return 0
	}
	return math.Ceil(within / edge * maxSpeed)
}

// Delta returns the scroll offsets for pointer p over viewport bounds r.
// Negative values scroll up or left. The top band wins over the bottom band
// and the left band over the right band when both apply. An empty r never
// scrolls.
func Delta(cfg Config, r geom.Rect, p geom.Point) (dx, dy float64) {
	if r.Empty() {
		return 0, 0
	}
	cfg = cfg.withDefaults()
	edge, max := cfg.Edge, cfg.MaxSpeed

	if v := Speed(p.Y-r.Top, edge, max); v > 0 && p.Y < r.Top+edge {
		dy = -v
	} else if v := Speed(r.Bottom()-p.Y, edge, max); v > 0 && p.Y > r.Bottom()-edge {
		dy = v
	}
	if v := Speed(p.X-r.Left, edge, max); v > 0 && p.X < r.Left+edge {
		dx = -v
	} else if v := Speed(r.Right()-p.X, edge, max); v > 0 && p.X > r.Right()-edge {
		dx = v
	}
	return dx, dy
}

// Viewport is a scrollable area. Bounds reports false when the viewport is
// no longer available, for example after it was torn down.
type Viewport interface {
	Bounds() (geom.Rect, bool)
	ScrollBy(dx, dy float64) error
}

// Controller applies [Delta] to a viewport on every drag tick.
type Controller struct {
	Config Config
	Logger *log.Logger
}

// New returns a controller for cfg. A nil logger uses log.Default().
func New(cfg Config, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{Config: cfg.withDefaults(), Logger: logger}
}

// Tick scrolls vp for the raw screen pointer p and returns the applied
// offsets. It never fails.
func (c *Controller) Tick(vp Viewport, p geom.Point) (dx, dy float64) {
	if c == nil || vp == nil {
		return 0, 0
	}
	r, ok := vp.Bounds()
	if !ok {
		c.logger().Debug("autoscroll skipped", "reason", "viewport unavailable")
		return 0, 0
	}
	dx, dy = Delta(c.Config, r, p)
	if dx == 0 && dy == 0 {
		return 0, 0
	}
	if err := vp.ScrollBy(dx, dy); err != nil {
		c.logger().Debug("autoscroll failed", "err", err)
		return 0, 0
	}
	return dx, dy
}

func (c *Controller) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}
