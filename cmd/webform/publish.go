package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drupalprojects/webform-sub000/internal/cli"
	"github.com/drupalprojects/webform-sub000/pkg/adapters/file"
	"github.com/drupalprojects/webform-sub000/pkg/adapters/redis"
)

var publishCmd = &cobra.Command{
	Use:   "publish <dir>",
	Short: "Publish form definitions from a directory into Redis",
	Long: `Compiles every definition found in <dir> and stores it in Redis under the configured
prefix. Servers loading from the same Redis reload the published forms.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.RedisAddr == "" {
			return errors.New("publish needs a Redis address (--redis or WEBFORM_REDIS_ADDR)")
		}
		debug, _ := cmd.Flags().GetBool("debug")
		logger, err := cli.NewLogger(cfg.LogLevel, debug)
		if err != nil {
			return err
		}

		src, err := file.New(args[0], file.WithLogger(logger))
		if err != nil {
			return err
		}
		dst := redis.New(cfg.RedisAddr, "", 0, redis.WithPrefix(cfg.RedisPrefix))
		defer dst.Close()

		n, err := cli.Publish(cmd.Context(), src, dst, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Published %d forms to %s ✅\n", n, cfg.RedisAddr)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
