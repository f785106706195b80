package sim

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/squadsim/internal/combat"
	"github.com/samdwyer/squadsim/internal/dice"
	"github.com/samdwyer/squadsim/internal/entity"
	"github.com/samdwyer/squadsim/internal/stats"
	"github.com/samdwyer/squadsim/internal/telemetry"
)

// BattleObserver is called for every finished battle, in battle order.
type BattleObserver func(index int, c *combat.SquadCombat)

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithTracer sets the tracer used for batch and battle spans.
func WithTracer(t trace.Tracer) RunnerOption {
	return func(r *Runner) {
		r.tracer = t
	}
}

// WithBattleObserver registers a callback for every finished battle.
func WithBattleObserver(o BattleObserver) RunnerOption {
	return func(r *Runner) {
		r.observer = o
	}
}

// Runner builds fresh forces for every battle, runs them to completion or to
// the round cap, and aggregates the results.
type Runner struct {
	cfg      Config
	seed     uint64
	tieBreak combat.TieBreak
	runID    string

	logger   logrus.FieldLogger
	tracer   trace.Tracer
	observer BattleObserver
}

// NewRunner validates cfg and creates a runner for it.
func NewRunner(cfg Config, opts ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	tieBreak, err := combat.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	discard := logrus.New()
	discard.Out = io.Discard

	r := &Runner{
		cfg:      cfg,
		seed:     seed,
		tieBreak: tieBreak,
		runID:    uuid.New().String(),
		logger:   discard,
		tracer:   telemetry.NoopTracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunID identifies this batch in logs and traces.
func (r *Runner) RunID() string { return r.runID }

// Seed returns the seed in use; pass it back in Config.Seed to replay the batch.
func (r *Runner) Seed() uint64 { return r.seed }

// Config returns the validated configuration.
func (r *Runner) Config() Config { return r.cfg }

// NewBattle builds the forces and combat for battle index. The same index
// always gets the same random stream.
func (r *Runner) NewBattle(index int, opts ...combat.Option) (*combat.SquadCombat, error) {
	attacker, err := entity.NewForceFromDef(r.cfg.Attacker.Def())
	if err != nil {
		return nil, fmt.Errorf("building attacker: %w", err)
	}
	defender, err := entity.NewForceFromDef(r.cfg.Defender.Def())
	if err != nil {
		return nil, fmt.Errorf("building defender: %w", err)
	}

	opts = append([]combat.Option{
		combat.WithRecalculateRatio(r.cfg.RecalculateRatio),
		combat.WithTieBreak(r.tieBreak),
	}, opts...)

	rng := dice.NewStream(r.seed, uint64(index))
	return combat.NewSquadCombat(attacker, defender, rng, opts...), nil
}

// RunBattle runs battle index until a winner is decided or MaxRounds is reached.
func (r *Runner) RunBattle(ctx context.Context, index int) (*combat.SquadCombat, error) {
	_, span := r.tracer.Start(ctx, "sim.battle")
	defer span.End()

	c, err := r.NewBattle(index, combat.WithRoundObserver(func(round combat.CombatRound) {
		span.AddEvent("round", trace.WithAttributes(
			attribute.Int("round", round.Number),
			attribute.Int("attacker.tactics", round.Tactics.Attacker),
			attribute.Int("defender.tactics", round.Tactics.Defender),
			attribute.Int("attacker.damage", round.ActualDamage.Attacker),
			attribute.Int("defender.damage", round.ActualDamage.Defender),
			attribute.Int("attacker.hp", round.HP.Attacker),
			attribute.Int("defender.hp", round.HP.Defender),
		))
	}))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for n := 1; c.Winner() == combat.Undecided; n++ {
		if n > r.cfg.MaxRounds {
			r.logger.WithFields(logrus.Fields{
				"run_id":     r.runID,
				"battle":     index,
				"max_rounds": r.cfg.MaxRounds,
			}).Warn("battle reached round cap without a winner")
			break
		}
		c.SimulateRound(n)
	}

	span.SetAttributes(
		attribute.Int("battle", index),
		attribute.Int("rounds", c.RoundCount()),
		attribute.String("winner", c.Winner().String()),
	)
	return c, nil
}

// Run simulates every battle and returns the aggregate summary. Battles are
// spread over Workers goroutines; the summary does not depend on the worker
// count. Cancelling ctx stops the batch between battles.
func (r *Runner) Run(ctx context.Context) (stats.Summary, error) {
	ctx, span := r.tracer.Start(ctx, "sim.batch")
	defer span.End()

	span.SetAttributes(
		attribute.String("run_id", r.runID),
		attribute.Int("simulations", r.cfg.Simulations),
		attribute.Int("workers", r.cfg.Workers),
		attribute.Int64("seed", int64(r.seed)),
	)

	log := r.logger.WithFields(logrus.Fields{
		"run_id":      r.runID,
		"seed":        r.seed,
		"simulations": r.cfg.Simulations,
		"workers":     r.cfg.Workers,
	})
	log.Info("starting batch")
	start := time.Now()

	battles, err := r.runAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.WithError(err).Error("batch aborted")
		return stats.Summary{}, err
	}

	agg := stats.NewAggregator()
	for i, c := range battles {
		agg.AddBattle(c)
		if r.observer != nil {
			r.observer(i, c)
		}
	}
	summary := agg.Summary()

	span.SetAttributes(
		attribute.Int("attacker_wins", summary.AttackerWins),
		attribute.Int("defender_wins", summary.DefenderWins),
		attribute.Int("undecided", summary.Undecided),
		attribute.Float64("avg_rounds", summary.AvgRounds),
	)
	log.WithFields(logrus.Fields{
		"attacker_wins": summary.AttackerWins,
		"defender_wins": summary.DefenderWins,
		"undecided":     summary.Undecided,
		"avg_rounds":    summary.AvgRounds,
		"elapsed":       time.Since(start).String(),
	}).Info("batch finished")

	return summary, nil
}

// runAll runs every battle and returns them indexed by battle number.
func (r *Runner) runAll(ctx context.Context) ([]*combat.SquadCombat, error) {
	battles := make([]*combat.SquadCombat, r.cfg.Simulations)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i := range battles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := r.RunBattle(gctx, i)
			if err != nil {
				return err
			}
			battles[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return battles, nil
}
