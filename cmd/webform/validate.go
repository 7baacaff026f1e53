package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drupalprojects/webform-sub000/internal/cli"
	"github.com/drupalprojects/webform-sub000/internal/presentation/tui"
)

var validateCmd = &cobra.Command{
	Use:   "validate [form-id...]",
	Short: "Check form definitions for authoring mistakes",
	Long: `Compiles each form (all forms when none is given) and reports #states rules that
can never apply: unparsable selectors, unknown elements or states, self references.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, eng, err := setup(cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		ids := args
		if len(ids) == 0 {
			if ids, err = eng.Forms(cmd.Context()); err != nil {
				return err
			}
		}

		results := make(map[string]error, len(ids))
		failed := 0
		for _, id := range ids {
			results[id] = eng.Lint(cmd.Context(), id)
			if results[id] != nil {
				failed++
			}
		}

		if err := cli.PrintMarkdown(cmd.OutOrStdout(), tui.LintMarkdown(results, ids)); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("validation failed: %d of %d forms have issues", failed, len(ids))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
