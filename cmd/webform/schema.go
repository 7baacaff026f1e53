package main

import (
	"github.com/spf13/cobra"

	"github.com/drupalprojects/webform-sub000/internal/cli"
	"github.com/drupalprojects/webform-sub000/internal/compiler"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of form definition documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.PrintJSON(cmd.OutOrStdout(), compiler.Schema())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
