package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjy-dev/vcov/internal/reward"
)

// DefaultConfigName is the base name of the main config file (configs/config.yaml).
const DefaultConfigName = "config"

// Config is the top-level configuration, read from the "config" key.
type Config struct {
	LogLevel  string       `mapstructure:"log_level"`
	LogDir    string       `mapstructure:"log_dir"`
	StateDir  string       `mapstructure:"state_dir"`
	HistoryDB string       `mapstructure:"history_db"`
	Reward    RewardConfig `mapstructure:"reward"`
	Output    OutputConfig `mapstructure:"output"`
}

// RewardConfig holds the reward formula constants.
type RewardConfig struct {
	Alpha          float64 `mapstructure:"alpha"`
	SmallPenalty   float64 `mapstructure:"small_penalty"`
	BonusThreshold float64 `mapstructure:"bonus_threshold"`
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	Format   string `mapstructure:"format"` // table, json or yaml
	Color    bool   `mapstructure:"color"`
	MaxHoles int    `mapstructure:"max_holes"` // 0 = all
}

// fileConfig mirrors the on-disk layout, where everything sits under "config".
type fileConfig struct {
	Config Config `mapstructure:"config"`
}

// RewardParams converts the reward section into formula parameters.
func (c *Config) RewardParams() reward.Params {
	return reward.Params{
		Alpha:          c.Reward.Alpha,
		SmallPenalty:   c.Reward.SmallPenalty,
		BonusThreshold: c.Reward.BonusThreshold,
	}
}

// Load reads a configuration file from the "configs" directory into a struct.
// configName is the base name of the file without the extension (e.g. "config").
// result must be a pointer to a struct to unmarshal into.
func Load(configName string, result interface{}) error {
	v := newViper(configName)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := v.Unmarshal(result); err != nil {
		return fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	return nil
}

// LoadConfig loads configs/config.yaml with defaults applied.
// A missing config file is not an error; environment variables prefixed with
// VCOV_ (e.g. VCOV_CONFIG_REWARD_ALPHA) override file values.
func LoadConfig() (*Config, error) {
	return LoadConfigNamed(DefaultConfigName)
}

// LoadConfigNamed is LoadConfig for a config file with a different base name.
func LoadConfigNamed(configName string) (*Config, error) {
	v := newViper(configName)
	setDefaults(v)

	v.SetEnvPrefix("VCOV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	cfg := fc.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make the CLI misbehave.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid output format %q (want table, json or yaml)", c.Output.Format)
	}
	if c.Output.MaxHoles < 0 {
		return fmt.Errorf("output.max_holes must not be negative, got %d", c.Output.MaxHoles)
	}
	return nil
}

func newViper(configName string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath("../configs")    // go test runs inside the package directory
	v.AddConfigPath("../../configs") // deeper packages
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config.log_level", "info")
	v.SetDefault("config.log_dir", "")
	v.SetDefault("config.state_dir", "vcov_state")
	v.SetDefault("config.history_db", "vcov_state/history.db")
	v.SetDefault("config.reward.alpha", reward.DefaultAlpha)
	v.SetDefault("config.reward.small_penalty", reward.DefaultSmallPenalty)
	v.SetDefault("config.reward.bonus_threshold", reward.DefaultBonusThreshold)
	v.SetDefault("config.output.format", "table")
	v.SetDefault("config.output.color", true)
	v.SetDefault("config.output.max_holes", 20)
}
