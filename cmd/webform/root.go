package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/drupalprojects/webform-sub000/internal/cli"
	"github.com/drupalprojects/webform-sub000/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "webform",
	Short: "Webform applies conditional states to form definitions",
	Long: `Webform compiles form definitions with #states rules, applies them to submitted
values and validates conditionally required fields.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().String("dir", "", "Directory containing form definitions")
	rootCmd.PersistentFlags().String("redis", "", "Redis address to load definitions from")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every lifecycle event")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON instead of a report")
}

// loadConfig reads the config file and environment, then applies flags that were set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	overrides := []struct {
		flag   string
		target *string
	}{
		{"dir", &cfg.FormsDir},
		{"redis", &cfg.RedisAddr},
		{"log-level", &cfg.LogLevel},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.target, _ = cmd.Flags().GetString(o.flag)
		}
	}
	return cfg, nil
}

// setup loads the configuration and builds the logger and engine for a command.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, *cli.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, nil, err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := cli.NewLogger(cfg.LogLevel, debug)
	if err != nil {
		return cfg, nil, nil, err
	}
	eng, err := cli.NewEngine(cfg, logger, debug)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, logger, eng, nil
}
