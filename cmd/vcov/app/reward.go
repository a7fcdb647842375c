package app

import (
	"github.com/spf13/cobra"

	"github.com/zjy-dev/vcov/internal/reward"
)

// NewRewardCommand creates the "reward" subcommand.
func NewRewardCommand(flags *globalFlags) *cobra.Command {
	var (
		delta          float64
		alpha          float64
		penalty        float64
		bonusThreshold float64
	)

	cmd := &cobra.Command{
		Use:   "reward",
		Short: "Compute the reward for a coverage delta.",
		Long: `Compute the reward for a coverage delta given in percentage points,
without reading any coverage files.

Examples:
  vcov reward --delta 6
  vcov reward --delta -1 --penalty -0.5`,
		Args: cobra.NoArgs,
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

			return newWriter(cmd, cfg).RewardOnly(delta, params.Reward(delta), params)
		},
	}

	defaults := reward.DefaultParams()
	cmd.Flags().Float64Var(&delta, "delta", 0, "Coverage delta in percentage points")
	cmd.Flags().Float64Var(&alpha, "alpha", defaults.Alpha, "Reward scale factor")
	cmd.Flags().Float64Var(&penalty, "penalty", defaults.SmallPenalty, "Reward for a zero or negative delta")
	cmd.Flags().Float64Var(&bonusThreshold, "bonus-threshold", defaults.BonusThreshold, "Delta (percentage points) that doubles the reward")
	_ = cmd.MarkFlagRequired("delta")

	return cmd
}
