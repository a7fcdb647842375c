package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/vcov/internal/config"
	"github.com/zjy-dev/vcov/internal/logger"
	"github.com/zjy-dev/vcov/internal/output"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	format   string
	noColor  bool
	logLevel string
}

// NewVcovCommand creates the root command for the vcov tool.
func NewVcovCommand() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "vcov",
		Short: "Verilator coverage analysis and reward shaping.",
		Long: `vcov reads Verilator coverage.dat files, reports line, toggle and branch
coverage, lists coverage holes, and turns the coverage change between two runs
into a scalar reward.

Configuration:
  Default values are loaded from configs/config.yaml under the 'config' section.
  Environment variables prefixed with VCOV_ and command line flags override them.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.format, "format", "table", "Output format: table, json or yaml")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	cmd.AddCommand(NewSummaryCommand(&flags))
	cmd.AddCommand(NewHolesCommand(&flags))
	cmd.AddCommand(NewDeltaCommand(&flags))
	cmd.AddCommand(NewRewardCommand(&flags))
	cmd.AddCommand(NewHistoryCommand(&flags))
	cmd.AddCommand(NewContextCommand(&flags))
	cmd.AddCommand(NewReportCommand(&flags))

	return cmd
}

// setup loads the config, applies global flag overrides and initializes the
// logger.
func setup(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("format") {
		cfg.Output.Format = flags.format
	}
	if cmd.Flags().Changed("no-color") {
		cfg.Output.Color = !flags.noColor
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	cfg.Output.Format = string(format)

	if cfg.LogDir != "" {
		if err := logger.InitWithFile(cfg.LogLevel, cfg.LogDir); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	} else {
		logger.Init(cfg.LogLevel)
		logger.SetLevel(cfg.LogLevel)
	}

	return cfg, nil
}

// newWriter builds an output writer on the command's stdout.
func newWriter(cmd *cobra.Command, cfg *config.Config) *output.Writer {
	return output.New(cmd.OutOrStdout(), output.Options{
		Format:   output.Format(cfg.Output.Format),
		Color:    cfg.Output.Color,
		MaxHoles: cfg.Output.MaxHoles,
	})
}
