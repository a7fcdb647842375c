package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/vcov/internal/coverage"
	"github.com/zjy-dev/vcov/internal/logger"
)

// NewSummaryCommand creates the "summary" subcommand.
func NewSummaryCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <coverage.dat>",
		Short: "Show overall, per-type and per-file coverage.",
		Long: `Show overall, per-type and per-file coverage for a Verilator coverage.dat file.

A missing file is reported as an empty report (0 points, 0%).

Examples:
  vcov summary obj_dir/coverage.dat
  vcov summary --format json obj_dir/coverage.dat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}

			report, err := parseReport(args[0])
			if err != nil {
				return err
			}
			return newWriter(cmd, cfg).Summary(report.Summary())
		},
	}
}

func parseReport(path string) (*coverage.Report, error) {
	report, err := coverage.NewParser(path).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	logger.Debug("Parsed %s: %d points, %.2f%% covered", path, report.TotalPoints(), report.CoveragePercentage())
	return report, nil
}
