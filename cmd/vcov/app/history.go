package app

import (
	"github.com/spf13/cobra"

	"github.com/zjy-dev/vcov/internal/history"
)

// NewHistoryCommand creates the "history" subcommand.
func NewHistoryCommand(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded evaluations and the coverage trend.",
		Long: `Show evaluations recorded with "vcov delta --record", newest first, and the
coverage trend over them.

Examples:
  vcov history
  vcov history --limit 5 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}

			store, err := history.NewSQLiteStore(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			trend, err := store.Trend(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return newWriter(cmd, cfg).History(records, trend)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of evaluations to show")

	return cmd
}
