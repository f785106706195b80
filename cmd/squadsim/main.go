// Package main is the entry point for squadsim.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/squadsim/internal/combat"
	"github.com/samdwyer/squadsim/internal/gamedata"
	"github.com/samdwyer/squadsim/internal/report"
	"github.com/samdwyer/squadsim/internal/sim"
	"github.com/samdwyer/squadsim/internal/telemetry"
	"github.com/samdwyer/squadsim/internal/ui"
)

type options struct {
	configPath    string
	scenario      string
	scenariosFile string
	listScenarios bool
	logLevel      string
	tui           bool

	simulations int
	seed        uint64
	workers     int
	maxRounds   int
	recalc      bool
	tieBreak    string
	verbose     bool
}

func parseFlags(args []string) (*options, *flag.FlagSet, error) {
	defaults := sim.DefaultConfig()
	opts := &options{}

	fs := flag.NewFlagSet("squadsim", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.scenario, "scenario", "", "scenario preset ID")
	fs.StringVar(&opts.scenariosFile, "scenarios", "", "JSON file with extra scenario presets")
	fs.BoolVar(&opts.listScenarios, "list-scenarios", false, "list scenario presets and exit")
	fs.StringVar(&opts.logLevel, "log-level", envOr("SQUADSIM_LOG_LEVEL", "warn"), "log level")
	fs.BoolVar(&opts.tui, "tui", false, "show the summary in a terminal dashboard")

	fs.IntVar(&opts.simulations, "n", defaults.Simulations, "number of battles")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed, 0 picks one")
	fs.IntVar(&opts.workers, "workers", defaults.Workers, "battles run in parallel")
	fs.IntVar(&opts.maxRounds, "max-rounds", defaults.MaxRounds, "round cap per battle")
	fs.BoolVar(&opts.recalc, "recalc-ratio", false, "recompute the ratio modifier every round")
	fs.StringVar(&opts.tieBreak, "tie-break", defaults.TieBreak, "winner when both sides fall together: defender or attacker")
	fs.BoolVar(&opts.verbose, "verbose", false, "print every round of every battle")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.SetLevel(lvl)
	return logger, nil
}

func loadRegistry(path string) (*gamedata.ScenarioRegistry, error) {
	scenarios, err := gamedata.LoadScenarios()
	if err != nil {
		return nil, err
	}
	if path != "" {
		extra, err := gamedata.LoadScenariosFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		scenarios = append(scenarios, extra...)
	}
	return gamedata.NewScenarioRegistry(scenarios), nil
}

// buildConfig layers defaults, the config file, the scenario preset and
// explicitly set flags, in that order.
func buildConfig(opts *options, fs *flag.FlagSet, registry *gamedata.ScenarioRegistry) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = sim.LoadConfig(opts.configPath); err != nil {
			return sim.Config{}, err
		}
	}
	if opts.scenario != "" {
		def, err := registry.Lookup(opts.scenario)
		if err != nil {
			return sim.Config{}, err
		}
		cfg = cfg.WithScenario(def)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.Simulations = opts.simulations
		case "seed":
			cfg.Seed = opts.seed
		case "workers":
			cfg.Workers = opts.workers
		case "max-rounds":
			cfg.MaxRounds = opts.maxRounds
		case "recalc-ratio":
			cfg.RecalculateRatio = opts.recalc
		case "tie-break":
			cfg.TieBreak = opts.tieBreak
		case "verbose":
			cfg.Verbose = opts.verbose
		}
	})
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, fs, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(opts.logLevel)
	if err != nil {
		return err
	}

	registry, err := loadRegistry(opts.scenariosFile)
	if err != nil {
		return err
	}
	if opts.listScenarios {
		for _, def := range registry.All() {
			fmt.Fprintf(stdout, "%-20s %s\n", def.ID, def.Description)
		}
		return nil
	}

	cfg, err := buildConfig(opts, fs, registry)
	if err != nil {
		return err
	}

	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			logger.WithError(err).Warn("telemetry setup failed, running without tracing")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.WithError(err).Warn("telemetry shutdown failed")
				}
			}()
		}
	}

	runnerOpts := []sim.RunnerOption{
		sim.WithLogger(logger),
		sim.WithTracer(telemetry.Tracer("sim")),
	}
	var writeErr error
	if cfg.Verbose {
		runnerOpts = append(runnerOpts, sim.WithBattleObserver(func(i int, c *combat.SquadCombat) {
			if writeErr == nil {
				writeErr = report.WriteBattle(stdout, i, c)
			}
		}))
	}

	runner, err := sim.NewRunner(cfg, runnerOpts...)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		logger.WithField("seed", runner.Seed()).Info("no seed given, pass -seed to replay this run")
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}

	if opts.tui {
		screen, err := ui.NewScreen()
		if err != nil {
			return fmt.Errorf("opening terminal: %w", err)
		}
		defer screen.Close()
		title := fmt.Sprintf("squadsim  run %s  seed %d", runner.RunID(), runner.Seed())
		ui.NewDashboard(screen, title).Show(summary)
		return nil
	}
	return report.WriteSummary(stdout, summary)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env not loaded: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "squadsim: %v\n", err)
		stop()
		os.Exit(1)
	}
}
