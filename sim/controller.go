package sim

import (
	"log/slog"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-playback/model"
	"github.com/sheikhrachel/go-gol-playback/playback"
	"github.com/sheikhrachel/go-gol-playback/rules"
	"github.com/sheikhrachel/go-gol-playback/utils"
)

var (
	// ErrInvalidSpeed is returned for non-positive playback speeds
	ErrInvalidSpeed = errors.New("speed must be a positive number of milliseconds")
	// ErrInvalidDensity is returned for randomize densities outside [0, 1]
	ErrInvalidDensity = errors.New("density must be within [0, 1]")
)

// Status is the outcome of a command
type Status int

const (
	// Applied means the command changed state
	Applied Status = iota
	// NoOp means the command was valid but had nothing to do
	NoOp
	// Rejected means validation failed and state is unchanged
	Rejected
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case NoOp:
		return "no-op"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Controller is the exclusive owner of a Simulation and its playback.
// Hosts translate input events into calls on the command surface. Controller
// is not safe for concurrent use: frames and commands must come from the same
// goroutine.
type Controller struct {
	sim       *Simulation
	scheduler *playback.Scheduler
	logger    *slog.Logger
}

// ControllerOption configures a Controller
type ControllerOption func(*controllerOptions)

type controllerOptions struct {
	now    func() time.Time
	logger *slog.Logger
}

// WithClock sets the clock used as the playback reference; defaults to time.Now
func WithClock(now func() time.Time) ControllerOption {
	return func(o *controllerOptions) { o.now = now }
}

// WithLogger sets the logger; defaults to slog.Default()
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(o *controllerOptions) { o.logger = logger }
}

// NewController takes ownership of s. Playback advances are driven by frames
// and gated at speedMS milliseconds.
func NewController(s *Simulation, frames playback.FrameSource, speedMS int, opts ...ControllerOption) (*Controller, error) {
	if speedMS <= 0 {
		return nil, errors.Wrapf(ErrInvalidSpeed, "[NewController] speed=%d", speedMS)
	}

	o := controllerOptions{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{sim: s, logger: o.logger}
	c.scheduler = playback.NewScheduler(frames, o.now, msToDuration(speedMS), c.advance)
	utils.SetPlaybackRunning(false)
	return c, nil
}

// Start begins continuous playback
func (c *Controller) Start() Status {
	if !c.scheduler.Start() {
		return NoOp
	}
	utils.SetPlaybackRunning(true)
	c.logger.Debug("playback started", "speed", c.scheduler.Speed(), "generation", c.sim.Generation())
	return Applied
}

// Stop halts continuous playback; no scheduled advance happens after it returns
func (c *Controller) Stop() Status {
	if !c.scheduler.Stop() {
		return NoOp
	}
	utils.SetPlaybackRunning(false)
	c.logger.Debug("playback stopped", "generation", c.sim.Generation())
	return Applied
}

// Step advances exactly one generation regardless of playback state
func (c *Controller) Step() Status {
	c.sim.Step()
	return Applied
}

// Randomize refills the grid at density and resets generation and history.
// Playback keeps running if it was.
func (c *Controller) Randomize(density float64) (Status, error) {
	if math.IsNaN(density) || density < 0 || density > 1 {
		c.logger.Warn("randomize rejected", "density", density)
		return Rejected, errors.Wrapf(ErrInvalidDensity, "[Randomize] density=%v", density)
	}
	c.sim.Randomize(density)
	c.logger.Debug("grid randomized", "density", density, "population", c.sim.Population())
	return Applied, nil
}

// SeedPatterns stamps the built-in patterns plus random life at density
func (c *Controller) SeedPatterns(density float64) (Status, error) {
	if math.IsNaN(density) || density < 0 || density > 1 {
		return Rejected, errors.Wrapf(ErrInvalidDensity, "[SeedPatterns] density=%v", density)
	}
	c.sim.SeedPatterns(density)
	return Applied, nil
}

// ClearGrid stops playback and kills every cell
func (c *Controller) ClearGrid() Status {
	c.Stop()
	c.sim.Clear()
	c.logger.Debug("grid cleared")
	return Applied
}

// Resize stops playback and replaces the grid with an all-dead one of the new
// size. Non-positive dimensions are rejected and the current grid is kept.
func (c *Controller) Resize(rows, cols int) (Status, error) {
	if rows <= 0 || cols <= 0 {
		c.logger.Warn("resize rejected", "rows", rows, "cols", cols)
		return Rejected, errors.Wrapf(model.ErrInvalidDimensions, "[Resize] rows=%d cols=%d", rows, cols)
	}
	c.Stop()
	if err := c.sim.Create(rows, cols); err != nil {
		return Rejected, err
	}
	c.logger.Debug("grid resized", "rows", rows, "cols", cols)
	return Applied, nil
}

// UpdateRules replaces the birth and survival counts. Characters other than
// the digits 0-8 never match a neighbor count; they are logged and dropped.
func (c *Controller) UpdateRules(birthDigits, survivalDigits string) Status {
	rs, ignored := rules.Parse(birthDigits, survivalDigits)
	if len(ignored) > 0 {
		c.logger.Warn("rule characters ignored", "ignored", string(ignored), "birth", birthDigits, "survival", survivalDigits)
	}
	if rs == c.sim.Rules() {
		return NoOp
	}
	c.sim.SetRules(rs)
	c.logger.Debug("rules updated", "rules", rs.String())
	return Applied
}

// SetRules replaces the rule set directly
func (c *Controller) SetRules(rs rules.RuleSet) Status {
	if rs == c.sim.Rules() {
		return NoOp
	}
	c.sim.SetRules(rs)
	return Applied
}

// SetSpeed changes the minimum milliseconds between scheduled generations.
// It takes effect on the next frame without restarting playback.
func (c *Controller) SetSpeed(ms int) (Status, error) {
	if ms <= 0 {
		c.logger.Warn("speed rejected", "speed_ms", ms)
		return Rejected, errors.Wrapf(ErrInvalidSpeed, "[SetSpeed] speed=%d", ms)
	}
	d := msToDuration(ms)
	if d == c.scheduler.Speed() {
		return NoOp, nil
	}
	c.scheduler.SetSpeed(d)
	return Applied, nil
}

// ToggleCell flips a cell; out-of-bounds coordinates are ignored
func (c *Controller) ToggleCell(row, col int) Status {
	if !c.sim.Toggle(row, col) {
		return NoOp
	}
	return Applied
}

// PaintCell forces a cell alive; out-of-bounds coordinates are ignored
func (c *Controller) PaintCell(row, col int) Status {
	if c.sim.Alive(row, col) {
		return NoOp
	}
	if !c.sim.Paint(row, col) {
		return NoOp
	}
	return Applied
}

// State returns the playback state
func (c *Controller) State() playback.State {
	return c.scheduler.State()
}

// Speed returns the minimum time between scheduled generations
func (c *Controller) Speed() time.Duration {
	return c.scheduler.Speed()
}

// View is the read-only side of a Simulation handed to renderers and hosts
type View interface {
	Rows() int
	Cols() int
	Alive(row, col int) bool
	Generation() int
	Population() int
	Rules() rules.RuleSet
	Stats() utils.Stats
	Snapshot() model.Snapshot
	History() []int
	HistoryCapacity() int
	Hash() string
}

// View exposes read access to the owned simulation. The value is live: it
// reflects later commands, but cannot be used to issue them.
func (c *Controller) View() View {
	return view{sim: c.sim}
}

// view forwards the read-only methods of a Simulation
type view struct {
	sim *Simulation
}

func (v view) Rows() int { return v.sim.Rows() }
func (v view) Cols() int { return v.sim.Cols() }
func (v view) Alive(row, col int) bool { return v.sim.Alive(row, col) }
func (v view) Generation() int { return v.sim.Generation() }
func (v view) Population() int { return v.sim.Population() }
func (v view) Rules() rules.RuleSet { return v.sim.Rules() }
func (v view) Stats() utils.Stats { return v.sim.Stats() }
func (v view) Snapshot() model.Snapshot { return v.sim.Snapshot() }
func (v view) History() []int { return v.sim.History() }
func (v view) HistoryCapacity() int { return v.sim.HistoryCapacity() }
func (v view) Hash() string { return v.sim.Hash() }

func (c *Controller) advance() {
	c.sim.Step()
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
