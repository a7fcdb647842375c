package app

import (
	"github.com/spf13/cobra"

	"github.com/zjy-dev/vcov/internal/coverage"
)

// NewHolesCommand creates the "holes" subcommand.
func NewHolesCommand(flags *globalFlags) *cobra.Command {
	var (
		file     string
		holeType string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "holes <coverage.dat>",
		Short: "List uncovered (file, line, type) locations.",
		Long: `List coverage holes, deduplicated by (file, line, type) and sorted.

Examples:
  vcov holes obj_dir/coverage.dat
  vcov holes --file rtl/alu.v --type toggle obj_dir/coverage.dat
  vcov holes --limit 0 obj_dir/coverage.dat   # no cap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("limit") {
				cfg.Output.MaxHoles = limit
			}

			report, err := parseReport(args[0])
			if err != nil {
				return err
			}

			var holes []coverage.Hole
			switch {
			case file != "":
				holes = report.HolesForFile(file)
				if holeType != "" {
					holes = filterType(holes, coverage.Type(holeType))
				}
			case holeType != "":
				holes = report.HolesOfType(coverage.Type(holeType))
			default:
				holes = report.Holes()
			}

			return newWriter(cmd, cfg).Holes(holes)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Only list holes in this file")
	cmd.Flags().StringVar(&holeType, "type", "", "Only list holes of this type (line, toggle, branch)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum holes shown in table output (0 = all)")

	return cmd
}

func filterType(holes []coverage.Hole, t coverage.Type) []coverage.Hole {
	out := make([]coverage.Hole, 0, len(holes))
	for _, h := range holes {
		if h.Type == t {
			out = append(out, h)
		}
	}
	return out
}
