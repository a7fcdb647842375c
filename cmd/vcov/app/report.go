package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/vcov/internal/logger"
	"github.com/zjy-dev/vcov/internal/report"
)

// NewReportCommand creates the "report" subcommand.
func NewReportCommand(flags *globalFlags) *cobra.Command {
	var (
		outputDir string
		sourceDir string
		radius    int
	)

	cmd := &cobra.Command{
		Use:   "report <coverage.dat>",
		Short: "Write a markdown coverage hole report.",
		Long: `Write a markdown report with the coverage summary and every hole grouped by
file. With --source-dir, numbered RTL context is embedded around the holes.

Examples:
  vcov report obj_dir/coverage.dat
  vcov report --source-dir rtl --radius 2 --out reports obj_dir/coverage.dat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(cmd, flags); err != nil {
				return err
			}

			r, err := parseReport(args[0])
			if err != nil {
				return err
			}

			path, err := report.NewMarkdownReporter(outputDir, sourceDir, radius).Save(args[0], r)
			if err != nil {
				return err
			}
			logger.Info("Wrote coverage report to %s", path)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().StringVar(&outputDir, "out", "vcov_reports", "Directory for generated reports")
	cmd.Flags().StringVar(&sourceDir, "source-dir", "", "RTL source root used to embed context around holes")
	cmd.Flags().IntVar(&radius, "radius", 3, "Lines of context on each side of a hole")

	return cmd
}
