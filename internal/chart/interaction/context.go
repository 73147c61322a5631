// Package interaction owns the pointer state machine of one chart. It turns
// pointer events into crosshair, tooltip and popover state and publishes
// immutable snapshots to any number of subscribers.
package interaction

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/crosshair/internal/chart/geometry"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/nearest"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/series"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/tooltip"
	"github.com/alexisbeaulieu97/crosshair/internal/clock"
	"github.com/alexisbeaulieu97/crosshair/internal/config"
	"github.com/alexisbeaulieu97/crosshair/internal/logger"
	"github.com/alexisbeaulieu97/crosshair/internal/store"
	crosserrors "github.com/alexisbeaulieu97/crosshair/pkg/errors"
)

// Options configures a Context.
type Options struct {
	Logger *logger.Logger
	Clock  clock.Clock
	// ID overrides the generated instance ID.
	ID string
}

// Context is the interaction state of one chart. All methods are safe for
// concurrent use; subscribers are called after the internal lock is released.
type Context struct {
	mu    sync.Mutex
	id    string
	log   *logger.Logger
	clock clock.Clock
	agg   *tooltip.Aggregator

	cfg       config.InteractionConfig
	series    []series.Series
	formatter series.Formatter

	// baseX and baseY are the scales as configured; xScale and yScale are
	// re-fitted to the current bounds.
	baseX, baseY   geometry.Scale
	xScale, yScale geometry.Scale
	bounds         geometry.PlotBounds
	offset         geometry.RootOffset

	state       State
	pointer     PointerState
	crosshair   CrosshairState
	tip         tooltip.Tooltip
	popover     Popover
	highlighted string
	version     uint64

	stickyTimer clock.Timer
	stickyGen   uint64

	hub store.Hub[Snapshot]
}

// New creates an idle context.
func New(cfg config.InteractionConfig, opts Options) (*Context, error) {
	cfg = cfg.Normalize()
	if err := config.ValidateInteraction(cfg); err != nil {
		return nil, err
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	log := opts.Logger.With("chart_id", id)

	return &Context{
		id:    id,
		log:   log,
		clock: clk,
		agg:   tooltip.NewAggregator(log),
		cfg:   cfg,
		tip:   tooltip.Tooltip{Entries: []tooltip.Entry{}},
	}, nil
}

// ID returns the instance identifier.
func (c *Context) ID() string {
	return c.id
}

// Config returns the active interaction settings.
func (c *Context) Config() config.InteractionConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Series returns the registered series.
func (c *Context) Series() []series.Series {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]series.Series(nil), c.series...)
}

// State returns the current state machine position.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a deep copy of the current interaction state.
func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers a listener called with a fresh snapshot after every
// change. Each listener sees versions in increasing order; a snapshot older
// than one it already received is skipped.
func (c *Context) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return c.hub.Subscribe(store.Ordered(snapshotVersion, fn))
}

func snapshotVersion(s Snapshot) uint64 {
	return s.Version
}

// SetConfig replaces the interaction settings. Invalid settings are rejected
// and the previous ones stay active.
func (c *Context) SetConfig(cfg config.InteractionConfig) error {
	cfg = cfg.Normalize()
	if err := config.ValidateInteraction(cfg); err != nil {
		return err
	}

	c.commit(func() {
		c.cfg = cfg
		if c.crosshair.Sticky && (!cfg.StickyCrosshair || !cfg.EnableCrosshair) {
			c.cancelStickyLocked()
			c.crosshair = CrosshairState{}
		}
		c.refreshLocked()
	})
	return nil
}

// SetSeries replaces the series set. Unsorted points or duplicate IDs are
// rejected and the previous series stay in place.
func (c *Context) SetSeries(list []series.Series) error {
	if err := series.Validate(list); err != nil {
		return err
	}
	copied := make([]series.Series, len(list))
	for i, s := range list {
		s.Points = append([]series.Point(nil), s.Points...)
		copied[i] = s
	}

	c.commit(func() {
		c.series = copied
		if c.highlighted != "" && series.IndexOf(copied, c.highlighted) < 0 {
			c.highlighted = ""
		}
		c.refreshLocked()
	})
	return nil
}

// SetScales replaces the axis scales. Scales that support it are re-fitted to
// the plot bounds on every layout pass.
func (c *Context) SetScales(xScale, yScale geometry.Scale) {
	c.commit(func() {
		c.baseX, c.baseY = xScale, yScale
		c.fitLocked()
		c.refreshLocked()
	})
}

// SetFormatter installs the chart-wide value formatter.
func (c *Context) SetFormatter(f series.Formatter) {
	c.commit(func() {
		c.formatter = f
		c.refreshLocked()
	})
}

// SetLayout records the plot size and its page offset.
func (c *Context) SetLayout(bounds geometry.PlotBounds, offset geometry.RootOffset) {
	c.commit(func() {
		c.bounds = bounds
		c.offset = offset
		c.fitLocked()
		c.refreshLocked()
	})
}

// Highlight marks a series for legend emphasis. An empty ID clears it. An
// unknown ID is rejected without publishing.
func (c *Context) Highlight(seriesID string) error {
	known := false
	c.commitIf(func() bool {
		known = seriesID == "" || series.IndexOf(c.series, seriesID) >= 0
		return known
	}, func() {
		c.highlighted = seriesID
	})
	if !known {
		return crosserrors.NewValidationError("series_id", fmt.Sprintf("unknown series %q", seriesID), nil)
	}
	return nil
}

// Handle feeds one pointer event through the state machine and returns the
// resulting snapshot. Unknown event kinds are ignored.
func (c *Context) Handle(ev PointerEvent) Snapshot {
	switch ev.Kind {
	case EventEnter:
		return c.PointerEnter(ev.PageX, ev.PageY)
	case EventMove:
		return c.PointerMove(ev.PageX, ev.PageY)
	case EventLeave:
		return c.PointerLeave()
	case EventDown:
		return c.PointerDown(ev.PageX, ev.PageY)
	case EventUp:
		return c.PointerUp(ev.PageX, ev.PageY)
	default:
		c.log.Debug("ignoring pointer event", "kind", string(ev.Kind))
		return c.Snapshot()
	}
}

// PointerEnter starts a hover. A held sticky crosshair is released.
func (c *Context) PointerEnter(pageX, pageY float64) Snapshot {
	return c.commit(func() {
		c.cancelStickyLocked()
		if c.state == Idle {
			c.transitionLocked(Hovering)
		}
		c.movePointerLocked(pageX, pageY)
		c.recomputeLocked(false)
	})
}

// PointerMove updates the pointer. A move while idle counts as an enter.
func (c *Context) PointerMove(pageX, pageY float64) Snapshot {
	return c.commit(func() {
		if c.state == Idle {
			c.cancelStickyLocked()
			c.transitionLocked(Hovering)
		}
		c.movePointerLocked(pageX, pageY)
		c.recomputeLocked(false)
	})
}

// PointerDown presses inside the chart. The tooltip is always recomputed.
func (c *Context) PointerDown(pageX, pageY float64) Snapshot {
	return c.commit(func() {
		c.cancelStickyLocked()
		c.transitionLocked(Dragging)
		c.movePointerLocked(pageX, pageY)
		c.recomputeLocked(true)
	})
}

// PointerUp releases a press. A release while idle is ignored and publishes
// nothing.
func (c *Context) PointerUp(pageX, pageY float64) Snapshot {
	return c.commitIf(c.activeLocked, func() {
		c.transitionLocked(Hovering)
		c.movePointerLocked(pageX, pageY)
		c.recomputeLocked(false)
	})
}

// PointerLeave returns to idle. Pointer and tooltip are cleared; the
// crosshair is either hidden or held when sticky crosshairs are enabled. A
// leave while idle publishes nothing.
func (c *Context) PointerLeave() Snapshot {
	return c.commitIf(c.activeLocked, func() {
		c.transitionLocked(Idle)
		c.pointer = PointerState{}
		c.tip = tooltip.Tooltip{Entries: []tooltip.Entry{}, Version: c.version}
		c.popover = Popover{}

		if !c.cfg.StickyCrosshair || !c.crosshair.Visible {
			c.crosshair = CrosshairState{}
			return
		}
		c.crosshair.Sticky = true
		c.scheduleStickyLocked()
	})
}

// commit runs mutate under the lock, bumps the version and publishes the
// resulting snapshot.
func (c *Context) commit(mutate func()) Snapshot {
	return c.commitIf(nil, mutate)
}

// commitIf is commit guarded by cond, evaluated under the same lock. When cond
// reports false nothing changes: the version stays put and no snapshot is
// published.
func (c *Context) commitIf(cond func() bool, mutate func()) Snapshot {
	c.mu.Lock()
	if cond != nil && !cond() {
		out := c.snapshotLocked()
		c.mu.Unlock()
		return out
	}
	c.version++
	mutate()
	out := c.snapshotLocked()
	c.mu.Unlock()

	c.hub.Publish(out.Clone())
	return out
}

func (c *Context) activeLocked() bool {
	return c.state != Idle
}

func (c *Context) transitionLocked(to State) {
	if c.state == to {
		return
	}
	c.log.Debug("interaction state changed", "from", c.state.String(), "to", to.String(), "version", c.version)
	c.state = to
}

func (c *Context) movePointerLocked(pageX, pageY float64) {
	c.pointer.PageX = pageX
	c.pointer.PageY = pageY
}

func (c *Context) fitLocked() {
	if c.baseX == nil || c.baseY == nil || c.bounds.IsDegenerate() {
		c.xScale, c.yScale = c.baseX, c.baseY
		return
	}
	c.xScale, c.yScale = geometry.Fit(c.baseX, c.baseY, c.bounds)
}

// refreshLocked recomputes after a settings change. A tooltip that is already
// on screen is rebuilt against the current pointer even when it is not live,
// so it never lists removed series or stale multi-series entries.
func (c *Context) refreshLocked() {
	c.recomputeLocked(!c.tip.Empty())
}

// recomputeLocked derives pointer, tooltip, crosshair and popover state from
// the pointer's page position. The tooltip is only rebuilt when live, while
// pressed, or when forced.
func (c *Context) recomputeLocked(forceTooltip bool) {
	if c.state == Idle {
		return
	}

	p := &c.pointer
	p.X, p.Y = c.offset.ToLocal(p.PageX, p.PageY)
	p.Inside = !c.bounds.IsDegenerate() && c.bounds.Contains(p.X, p.Y)
	p.Data = geometry.Resolve(p.X, p.Y, c.bounds, c.xScale, c.yScale)
	p.HasData = !p.Data.Degenerate

	var results []nearest.Result
	if p.HasData {
		results = nearest.LocateAll(c.series, p.Data, c.xScale, c.yScale, nearest.Lookup(c.cfg.Lookup))
	}

	if forceTooltip || c.cfg.LiveTooltip || c.state == Dragging {
		c.tip = c.agg.Aggregate(c.series, results, tooltip.Options{
			MultiTooltip:          c.cfg.MultiTooltip,
			PointerPixelThreshold: c.cfg.PointerPixelThreshold,
			MaxSeries:             c.cfg.AggregatorMaxSeries,
			Formatter:             c.formatter,
		}, c.version)
	}

	c.crosshair = c.crosshairLocked(results)
	c.popover = c.popoverLocked()
}

func (c *Context) crosshairLocked(results []nearest.Result) CrosshairState {
	if !c.cfg.EnableCrosshair || c.bounds.IsDegenerate() {
		return CrosshairState{}
	}

	x, y := c.bounds.Clamp(c.pointer.X, c.pointer.Y)
	ch := CrosshairState{Visible: true, PixelX: x, PixelY: y}

	best := -1
	for i, r := range results {
		if r.Found && (best < 0 || r.Match.PixelDistance < results[best].Match.PixelDistance) {
			best = i
		}
	}
	if best >= 0 && results[best].Match.PixelDistance <= c.cfg.CrosshairPixelThreshold {
		ch.PixelX = results[best].Match.PixelX
		if c.cfg.Lookup == config.LookupXY {
			ch.PixelY = results[best].Match.PixelY
		}
		ch.Snapped = true
	}
	return ch
}

func (c *Context) popoverLocked() Popover {
	if c.tip.Empty() {
		return Popover{}
	}

	x, y := c.bounds.Clamp(c.pointer.X, c.pointer.Y)
	if c.cfg.PopoverFollowMode == config.FollowCrosshair {
		switch {
		case c.crosshair.Visible:
			x = c.crosshair.PixelX
		case c.tip.HasAnchor:
			x = c.tip.AnchorPixelX
		}
	}

	pop := Popover{Visible: true, X: x, Y: y}
	if c.cfg.PopoverPortal {
		pop.X, pop.Y = c.offset.ToPage(x, y)
		pop.Portal = true
	}
	return pop
}

// scheduleStickyLocked arms the sticky timeout. A zero timeout holds the
// crosshair until the next hover.
func (c *Context) scheduleStickyLocked() {
	c.cancelStickyLocked()
	if c.cfg.StickyTimeout <= 0 {
		return
	}
	gen := c.stickyGen
	c.stickyTimer = c.clock.AfterFunc(c.cfg.StickyTimeout, func() {
		c.releaseSticky(gen)
	})
}

// cancelStickyLocked stops the sticky timer. The generation bump turns a
// callback that already fired but has not taken the lock into a no-op.
func (c *Context) cancelStickyLocked() {
	c.stickyGen++
	if c.stickyTimer != nil {
		c.stickyTimer.Stop()
		c.stickyTimer = nil
	}
}

func (c *Context) releaseSticky(gen uint64) {
	c.mu.Lock()
	if gen != c.stickyGen || !c.crosshair.Sticky {
		c.mu.Unlock()
		return
	}
	c.stickyTimer = nil
	c.version++
	c.crosshair = CrosshairState{}
	c.log.Debug("sticky crosshair released", "version", c.version)
	out := c.snapshotLocked()
	c.mu.Unlock()

	c.hub.Publish(out.Clone())
}

func (c *Context) snapshotLocked() Snapshot {
	return Snapshot{
		ID:          c.id,
		Version:     c.version,
		State:       c.state,
		Pointer:     c.pointer,
		Crosshair:   c.crosshair,
		Tooltip:     c.tip.Clone(),
		Popover:     c.popover,
		Highlighted: c.highlighted,
		Bounds:      c.bounds,
		Offset:      c.offset,
	}
}
