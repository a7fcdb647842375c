package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/vcov/internal/coverage"
)

// NewContextCommand creates the "context" subcommand.
func NewContextCommand(flags *globalFlags) *cobra.Command {
	var (
		lines  []int
		radius int
	)

	cmd := &cobra.Command{
		Use:   "context <rtl-file>",
		Short: "Print numbered RTL source around the given lines.",
		Long: `Print numbered source lines around each requested line, typically the lines
reported by "vcov holes". Overlapping windows are merged.

Examples:
  vcov context rtl/alu.v --lines 18,22
  vcov context rtl/alu.v --lines 18 --radius 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			if radius < 0 {
				return fmt.Errorf("radius must not be negative, got %d", radius)
			}

			snippet := coverage.SourceContext(args[0], lines, radius)
			return newWriter(cmd, cfg).SourceContext(args[0], lines, snippet)
		},
	}

	cmd.Flags().IntSliceVar(&lines, "lines", nil, "Comma-separated line numbers")
	cmd.Flags().IntVar(&radius, "radius", 3, "Lines of context on each side")
	_ = cmd.MarkFlagRequired("lines")

	return cmd
}
