package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-playback/model"
	"github.com/sheikhrachel/go-gol-playback/playback"
	"github.com/sheikhrachel/go-gol-playback/rules"
	"github.com/sheikhrachel/go-gol-playback/sim"
	"github.com/sheikhrachel/go-gol-playback/utils"
)

// stagnationWindow is how many recent grid hashes are kept for cycle detection
const stagnationWindow = 5

// initializeGame sets up the simulation, its controller and the frame queue
// the host loop drives
func initializeGame(config utils.Config, logger *slog.Logger) (*sim.Controller, *playback.FrameQueue, error) {
	engine := &rules.Engine{Parallel: config.UseParallel}
	if config.UseMemoryPool {
		engine.Pool = model.NewGridPool()
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	simulation, err := sim.New(config.Rows, config.Cols, rules.Conway(), sim.WithEngine(engine), sim.WithSeed(seed))
	if err != nil {
		return nil, nil, errors.Wrap(err, "[initializeGame] failed to create simulation")
	}

	frames := playback.NewFrameQueue()
	ctrl, err := sim.NewController(simulation, frames, config.SpeedMS, sim.WithLogger(logger))
	if err != nil {
		return nil, nil, errors.Wrap(err, "[initializeGame] failed to create controller")
	}

	ctrl.UpdateRules(config.Birth, config.Survival)
	if config.Patterns {
		_, err = ctrl.SeedPatterns(config.RandomDensity)
	} else {
		_, err = ctrl.Randomize(config.RandomDensity)
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "[initializeGame] failed to seed grid")
	}

	logger.Info("game initialized",
		"rows", config.Rows,
		"cols", config.Cols,
		"rules", ctrl.View().Rules().String(),
		"speed", ctrl.Speed(),
		"seed", seed,
		"parallel", config.UseParallel,
		"memory_pool", config.UseMemoryPool,
	)
	return ctrl, frames, nil
}

// isTerminal reports whether w is an interactive terminal. Colors and
// screen clearing only make sense there.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// displayGameInfo shows the initial game information
func displayGameInfo(w io.Writer, config utils.Config, view sim.View) {
	fmt.Fprintf(w, "Features: Memory Pool: %v, Parallel: %v\n", config.UseMemoryPool, config.UseParallel)
	fmt.Fprintf(w, "Grid: %dx%d | Rules: %s | Initial living cells: %d\n",
		view.Rows(), view.Cols(), view.Rules(), view.Population())
	fmt.Fprintln(w, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(w)
}

// displayGameStatus shows the current game status
func displayGameStatus(w io.Writer, view sim.View, state playback.State, status string, totalGenerations int) {
	stats := view.Stats()
	density := float64(stats.Population) / float64(view.Rows()*view.Cols()) * 100

	fmt.Fprintf(w, "Gen: %d | Living: %d | Density: %.1f%% | Rules: %s | Playback: %s | Status: %s\n",
		stats.Generation, stats.Population, density, view.Rules(), state, status)
	fmt.Fprintf(w, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, time.Since(stats.StartTime).Seconds())

	if totalGenerations > stats.Generation {
		fmt.Fprintf(w, "Total generations: %d\n", totalGenerations)
	}
	fmt.Fprintln(w)
}

// renderFrame draws status, grid and population chart
func renderFrame(w io.Writer, renderer *model.TerminalRenderer, config utils.Config, view sim.View, state playback.State, status string, totalGenerations int) error {
	displayGameStatus(w, view, state, status, totalGenerations)
	return renderBoard(w, renderer, config, view)
}

// renderBoard draws the grid and, unless disabled, the population chart
func renderBoard(w io.Writer, renderer *model.TerminalRenderer, config utils.Config, view sim.View) error {
	if err := renderer.Display(w, view.Snapshot(), config.CellSize); err != nil {
		return errors.Wrap(err, "[renderBoard] failed to draw grid")
	}
	if config.ChartHeight == 0 {
		return nil
	}
	width := min(view.Cols()*config.CellSize, view.HistoryCapacity())
	if err := renderer.Chart(w, view.History(), view.HistoryCapacity(), width, config.ChartHeight); err != nil {
		return errors.Wrap(err, "[renderBoard] failed to draw chart")
	}
	return nil
}

// stagnationTracker remembers recent grid hashes to spot still lifes and
// short cycles
type stagnationTracker struct {
	history       []string
	stagnantCount int
}

// observe records the grid hash of a new generation and reports whether it
// repeats one of the last three
func (t *stagnationTracker) observe(hash string) bool {
	stagnant := false
	for i := len(t.history) - 1; i >= 0 && i >= len(t.history)-3; i-- {
		if t.history[i] == hash {
			stagnant = true
			break
		}
	}

	t.history = append(t.history, hash)
	if len(t.history) > stagnationWindow {
		t.history = t.history[1:]
	}

	if stagnant {
		t.stagnantCount++
	} else {
		t.stagnantCount = 0
	}
	return stagnant
}

func (t *stagnationTracker) reset() {
	t.history = nil
	t.stagnantCount = 0
}

// generationStatus describes the current population
func generationStatus(population int, stagnant bool) string {
	switch {
	case population == 0:
		return "Extinct"
	case stagnant:
		return "Stagnant"
	default:
		return "Active"
	}
}

// checkRestartConditions determines if the game should restart
func checkRestartConditions(livingCells, stagnantCount int, config utils.Config) (bool, string) {
	if livingCells == 0 {
		return true, "extinction"
	}
	if stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

// restartGame reseeds the grid, keeping playback running
func restartGame(ctrl *sim.Controller, config utils.Config) error {
	var err error
	if config.Patterns {
		_, err = ctrl.SeedPatterns(config.RandomDensity)
	} else {
		_, err = ctrl.Randomize(config.RandomDensity)
	}
	return err
}

// printFinalStats reports the run once playback has ended
func printFinalStats(w io.Writer, view sim.View, totalGenerations int) {
	stats := view.Stats()
	fmt.Fprintf(w, "Final stats: %d generations in %.1f seconds\n",
		totalGenerations, time.Since(stats.StartTime).Seconds())
	fmt.Fprintf(w, "Average: %.1f gen/sec, %.1f avg population\n",
		stats.GenerationsPerSecond, stats.AveragePopulation)
}

// logOutput picks where log records go. An interactive session owns the
// terminal, so records are dropped there unless a log file is configured.
func logOutput(config utils.Config, stderr io.Writer, interactive bool) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch {
	case config.LogFile != "":
		f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, noop, errors.Wrapf(err, "[logOutput] failed to open log file: %+v", config.LogFile)
		}
		return f, f.Close, nil
	case interactive:
		return io.Discard, noop, nil
	default:
		return stderr, noop, nil
	}
}

// gameSession is the host side of one run: it turns frame notifications and
// input into controller commands and tracks what the status line shows.
// It lives on the loop goroutine together with the controller.
type gameSession struct {
	config   utils.Config
	ctrl     *sim.Controller
	frames   *playback.FrameQueue
	view     sim.View
	renderer *model.TerminalRenderer
	logger   *slog.Logger

	tracker          stagnationTracker
	lastGeneration   int
	totalGenerations int
	status           string

	cursor   model.Cursor
	painting bool
	dragging bool
	preset   int
	message  string
}

func newGameSession(config utils.Config, ctrl *sim.Controller, frames *playback.FrameQueue, renderer *model.TerminalRenderer, logger *slog.Logger) *gameSession {
	s := &gameSession{
		config:   config,
		ctrl:     ctrl,
		frames:   frames,
		view:     ctrl.View(),
		renderer: renderer,
		logger:   logger,
	}
	s.resync()
	return s
}

// resync forgets generation tracking after the grid was replaced
func (s *gameSession) resync() {
	s.tracker.reset()
	s.lastGeneration = s.view.Generation()
	s.status = generationStatus(s.view.Population(), false)
}

// frame delivers one frame notification to the scheduler, then observes
func (s *gameSession) frame(now time.Time) (changed, done bool, err error) {
	s.frames.Tick(now)
	return s.observe()
}

// observe accounts for a completed generation, whether scheduled or manual.
// done reports that the generation limit was reached and playback stopped.
func (s *gameSession) observe() (changed, done bool, err error) {
	if s.view.Generation() == s.lastGeneration {
		return false, false, nil
	}
	s.lastGeneration = s.view.Generation()
	s.totalGenerations++

	stagnant := s.tracker.observe(s.view.Hash())
	s.status = generationStatus(s.view.Population(), stagnant)

	if s.config.MaxGenerations > 0 && s.totalGenerations >= s.config.MaxGenerations {
		s.ctrl.Stop()
		return true, true, nil
	}

	if !s.config.AutoRestart {
		return true, false, nil
	}
	if restart, reason := checkRestartConditions(s.view.Population(), s.tracker.stagnantCount, s.config); restart {
		s.logger.Info("restarting", "reason", reason, "generation", s.lastGeneration)
		if err := restartGame(s.ctrl, s.config); err != nil {
			return true, false, err
		}
		s.resync()
	}
	return true, false, nil
}

// draw clears the screen and renders the current frame
func (s *gameSession) draw(w io.Writer) error {
	s.renderer.Clear(w)
	return renderFrame(w, s.renderer, s.config, s.view, s.ctrl.State(), s.status, s.totalGenerations)
}
