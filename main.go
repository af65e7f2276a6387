package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol-playback/model"
	"github.com/sheikhrachel/go-gol-playback/playback"
	"github.com/sheikhrachel/go-gol-playback/rules"
	"github.com/sheikhrachel/go-gol-playback/sim"
	"github.com/sheikhrachel/go-gol-playback/utils"
)

var (
	configPath   string
	rulesFlag    string
	plainFlag    bool
	headlessFlag bool
	flagConfig   = utils.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "go-gol",
	Short: "Play a Life-like cellular automaton in the terminal",
	Long: `go-gol plays a Life-like cellular automaton with configurable birth and
survival rules, renders the grid and a population chart in the terminal and
optionally exposes Prometheus metrics.

On a terminal the game is interactive: p plays or pauses, n steps, r
randomizes, c clears, +/- change speed, [ and ] resize, u cycles rule presets,
arrows move the cursor, t toggles and x paints. Clicking toggles a cell and
dragging paints. Use --headless to only watch.`,
	SilenceUsage: true,
	RunE:         runGame,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "config.json", "JSON or YAML config file (ignored when missing)")
	flags.IntVar(&flagConfig.Rows, "rows", flagConfig.Rows, "grid rows")
	flags.IntVar(&flagConfig.Cols, "cols", flagConfig.Cols, "grid columns")
	flags.IntVar(&flagConfig.SpeedMS, "speed", flagConfig.SpeedMS, "minimum milliseconds between generations")
	flags.StringVar(&flagConfig.Birth, "birth", flagConfig.Birth, "birth neighbor counts as digits, e.g. 3")
	flags.StringVar(&flagConfig.Survival, "survival", flagConfig.Survival, "survival neighbor counts as digits, e.g. 23")
	flags.StringVar(&rulesFlag, "rules", "", "rules in B/S notation, e.g. B36/S23 (overrides --birth/--survival)")
	flags.Float64Var(&flagConfig.RandomDensity, "density", flagConfig.RandomDensity, "probability a cell starts alive")
	flags.Int64Var(&flagConfig.Seed, "seed", flagConfig.Seed, "random seed, 0 for time-based")
	flags.BoolVar(&flagConfig.Patterns, "patterns", flagConfig.Patterns, "seed gliders and blinkers before random fill")
	flags.DurationVar(&flagConfig.FrameRate, "frame-rate", flagConfig.FrameRate, "host frame interval")
	flags.BoolVar(&flagConfig.UseParallel, "parallel", flagConfig.UseParallel, "compute generations in parallel row bands")
	flags.BoolVar(&flagConfig.UseMemoryPool, "memory-pool", flagConfig.UseMemoryPool, "recycle grids between generations")
	flags.IntVar(&flagConfig.MaxGenerations, "max-generations", flagConfig.MaxGenerations, "stop after this many generations, 0 for no limit")
	flags.BoolVar(&flagConfig.AutoRestart, "auto-restart", flagConfig.AutoRestart, "reseed on extinction or stagnation")
	flags.IntVar(&flagConfig.StagnationThreshold, "stagnation-threshold", flagConfig.StagnationThreshold, "stagnant generations before a restart")
	flags.IntVar(&flagConfig.CellSize, "cell-size", flagConfig.CellSize, "characters per cell")
	flags.IntVar(&flagConfig.ChartHeight, "chart-height", flagConfig.ChartHeight, "population chart height in lines, 0 to hide")
	flags.StringVar(&flagConfig.LogLevel, "log-level", flagConfig.LogLevel, "debug, info, warn or error")
	flags.BoolVar(&flagConfig.LogJSON, "log-json", flagConfig.LogJSON, "log JSON records")
	flags.StringVar(&flagConfig.LogFile, "log-file", flagConfig.LogFile, "append log records to this file")
	flags.StringVar(&flagConfig.MetricsAddr, "metrics-addr", flagConfig.MetricsAddr, "serve Prometheus metrics on this address")
	flags.BoolVar(&plainFlag, "plain", false, "disable colors")
	flags.BoolVar(&headlessFlag, "headless", false, "play without keyboard or mouse input even on a terminal")
}

// resolveConfig loads the config file, then applies flags the user set explicitly
func resolveConfig(cmd *cobra.Command) (utils.Config, error) {
	resolved := utils.DefaultConfig()
	loaded, err := utils.LoadConfig(configPath)
	switch {
	case err == nil:
		resolved = loaded
	case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config"):
		// no config file, defaults apply
	default:
		return resolved, err
	}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		applyFlag(&resolved, f.Name)
	})

	if rulesFlag != "" {
		rs, err := rules.ParseNotation(rulesFlag)
		if err != nil {
			return resolved, err
		}
		resolved.Birth, resolved.Survival = rs.Birth.String(), rs.Survival.String()
	}

	return resolved, resolved.Validate()
}

// applyFlag copies one explicitly set flag value onto the resolved config
func applyFlag(c *utils.Config, name string) {
	switch name {
	case "rows":
		c.Rows = flagConfig.Rows
	case "cols":
		c.Cols = flagConfig.Cols
	case "speed":
		c.SpeedMS = flagConfig.SpeedMS
	case "birth":
		c.Birth = flagConfig.Birth
	case "survival":
		c.Survival = flagConfig.Survival
	case "density":
		c.RandomDensity = flagConfig.RandomDensity
	case "seed":
		c.Seed = flagConfig.Seed
	case "patterns":
		c.Patterns = flagConfig.Patterns
	case "frame-rate":
		c.FrameRate = flagConfig.FrameRate
	case "parallel":
		c.UseParallel = flagConfig.UseParallel
	case "memory-pool":
		c.UseMemoryPool = flagConfig.UseMemoryPool
	case "max-generations":
		c.MaxGenerations = flagConfig.MaxGenerations
	case "auto-restart":
		c.AutoRestart = flagConfig.AutoRestart
	case "stagnation-threshold":
		c.StagnationThreshold = flagConfig.StagnationThreshold
	case "cell-size":
		c.CellSize = flagConfig.CellSize
	case "chart-height":
		c.ChartHeight = flagConfig.ChartHeight
	case "log-level":
		c.LogLevel = flagConfig.LogLevel
	case "log-json":
		c.LogJSON = flagConfig.LogJSON
	case "log-file":
		c.LogFile = flagConfig.LogFile
	case "metrics-addr":
		c.MetricsAddr = flagConfig.MetricsAddr
	}
}

func runGame(cmd *cobra.Command, _ []string) error {
	resolved, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interactive := !headlessFlag && isTerminal(os.Stdin) && isTerminal(out)

	logOut, closeLog, err := logOutput(resolved, cmd.ErrOrStderr(), interactive)
	if err != nil {
		return err
	}
	defer closeLog()

	logger := utils.NewLogger(logOut, resolved.LogLevel, resolved.LogJSON)
	slog.SetDefault(logger)

	ctrl, frames, err := initializeGame(resolved, logger)
	if err != nil {
		return err
	}

	if !interactive {
		displayGameInfo(out, resolved, ctrl.View())
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, resolved, ctrl, frames, out, logger, interactive)
}

// serve runs the playback loop, interactive or headless, and when configured
// the metrics endpoint until the context is cancelled, the user quits or the
// generation limit is reached
func serve(ctx context.Context, config utils.Config, ctrl *sim.Controller, frames *playback.FrameQueue, out io.Writer, logger *slog.Logger, interactive bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	if config.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		eg.Go(func() error {
			logger.Info("serving metrics", "addr", config.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "[serve] metrics server failed")
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	eg.Go(func() error {
		defer cancel()
		if interactive {
			renderer := &model.TerminalRenderer{Plain: plainFlag}
			return runInteractive(ctx, newGameSession(config, ctrl, frames, renderer, logger), out)
		}
		return playLoop(ctx, config, ctrl, frames, out, logger)
	})

	return eg.Wait()
}

// playLoop is the headless host loop: each tick delivers a frame notification
// to the scheduler and redraws when a generation completed
func playLoop(ctx context.Context, config utils.Config, ctrl *sim.Controller, frames *playback.FrameQueue, out io.Writer, logger *slog.Logger) error {
	ticker := time.NewTicker(config.FrameRate)
	defer ticker.Stop()

	renderer := &model.TerminalRenderer{Plain: plainFlag || !isTerminal(out)}
	session := newGameSession(config, ctrl, frames, renderer, logger)
	if err := session.draw(out); err != nil {
		return err
	}
	ctrl.Start()

	for {
		select {
		case <-ctx.Done():
			ctrl.Stop()
			fmt.Fprintln(out, "\n🛑 Shutting down gracefully...")
			printFinalStats(out, session.view, session.totalGenerations)
			return nil
		case now := <-ticker.C:
			changed, done, err := session.frame(now)
			if err != nil {
				return err
			}
			if !changed {
				continue
			}
			if err := session.draw(out); err != nil {
				return err
			}
			if done {
				fmt.Fprintf(out, "\n🏁 Reached maximum generations limit (%d)\n", config.MaxGenerations)
				return nil
			}
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
