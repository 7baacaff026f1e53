package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	webform "github.com/drupalprojects/webform-sub000"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of webform",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "webform version %s\n", strings.TrimSpace(webform.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
