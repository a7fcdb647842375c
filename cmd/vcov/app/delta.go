package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zjy-dev/vcov/internal/config"
	"github.com/zjy-dev/vcov/internal/coverage"
	"github.com/zjy-dev/vcov/internal/history"
	"github.com/zjy-dev/vcov/internal/logger"
	"github.com/zjy-dev/vcov/internal/reward"
	"github.com/zjy-dev/vcov/internal/state"
)

// NewDeltaCommand creates the "delta" subcommand.
func NewDeltaCommand(flags *globalFlags) *cobra.Command {
	var (
		alpha          float64
		penalty        float64
		bonusThreshold float64
		record         bool
	)

	cmd := &cobra.Command{
		Use:   "delta <before.dat> <after.dat>",
		Short: "Compare two coverage files and compute the reward.",
		Long: `Compare a before and an after coverage.dat and compute the coverage delta,
the newly covered lines and the reward:

  delta > 0: alpha * delta * (1 + bonus), bonus = 1 when delta >= bonus-threshold
  otherwise: penalty

With --record the evaluation is appended to the history database and folded
into the loop state under state_dir.

Examples:
  vcov delta run1/coverage.dat run2/coverage.dat
  vcov delta --alpha 2 --bonus-threshold 10 run1/coverage.dat run2/coverage.dat
  vcov delta --record run1/coverage.dat run2/coverage.dat`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}

			params := cfg.RewardParams()
			if cmd.Flags().Changed("alpha") {
				params.Alpha = alpha
			}
			if cmd.Flags().Changed("penalty") {
				params.SmallPenalty = penalty
			}
			if cmd.Flags().Changed("bonus-threshold") {
				params.BonusThreshold = bonusThreshold
			}

			res, err := runDelta(cmd.Context(), args[0], args[1], params)
			if err != nil {
				return err
			}

			if record {
				if err := recordEvaluation(cmd.Context(), cfg, args[0], args[1], res); err != nil {
					return err
				}
			}

			return newWriter(cmd, cfg).Result(res)
		},
	}

	defaults := reward.DefaultParams()
	cmd.Flags().Float64Var(&alpha, "alpha", defaults.Alpha, "Reward scale factor")
	cmd.Flags().Float64Var(&penalty, "penalty", defaults.SmallPenalty, "Reward for a zero or negative delta")
	cmd.Flags().Float64Var(&bonusThreshold, "bonus-threshold", defaults.BonusThreshold, "Delta (percentage points) that doubles the reward")
	cmd.Flags().BoolVar(&record, "record", false, "Record the evaluation in the history database and loop state")

	return cmd
}

// runDelta parses both inputs concurrently and evaluates the reward.
func runDelta(ctx context.Context, beforePath, afterPath string, params reward.Params) (*reward.Result, error) {
	var before, after *coverage.Report

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := parseReport(beforePath)
		before = r
		return err
	})
	g.Go(func() error {
		r, err := parseReport(afterPath)
		after = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res, err := reward.Evaluate(before, after, params)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate reward: %w", err)
	}
	logger.Info("Coverage %.2f%% -> %.2f%% (%+.2f), reward %.4f",
		res.Delta.CoverageBefore, res.Delta.CoverageAfter, res.Delta.CoverageDelta, res.Reward)
	return res, nil
}

// recordEvaluation appends the evaluation to the history ledger and then folds
// it into the loop state. The state is only written once the ledger insert
// succeeded, so a failed run can be retried without double counting.
func recordEvaluation(ctx context.Context, cfg *config.Config, beforePath, afterPath string, res *reward.Result) error {
	sm := state.NewFileManager(cfg.StateDir)
	if err := sm.Load(); err != nil {
		return err
	}

	store, err := history.NewSQLiteStore(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := history.NewRecord(beforePath, afterPath, res)
	if err := store.Record(ctx, rec); err != nil {
		return err
	}
	logger.Debug("Recorded evaluation %s in %s", rec.ID, cfg.HistoryDB)

	sm.Record(state.Evaluation{
		AfterPath:     afterPath,
		CoverageAfter: res.Delta.CoverageAfter,
		CoverageDelta: res.Delta.CoverageDelta,
		Reward:        res.Reward,
	})
	return sm.Save()
}
