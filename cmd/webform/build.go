package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drupalprojects/webform-sub000/internal/cli"
	"github.com/drupalprojects/webform-sub000/internal/presentation/tui"
	"github.com/drupalprojects/webform-sub000/pkg/domain"
)

var buildCmd = &cobra.Command{
	Use:   "build <form-id>",
	Short: "Apply conditional states to submitted values",
	Long: `Compiles a form, applies its #states rules to the submitted values and prints the
resulting attributes. Values are read from --data (JSON or YAML, "-" for stdin).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPhase(cmd, args[0], false)
		if err != nil {
			return err
		}
		return printResult(cmd, res)
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <form-id>",
	Short: "Validate submitted values against conditional required rules",
	Long: `Compiles a form, applies its #states rules and validates required fields.
Exits with an error when a required field is empty.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPhase(cmd, args[0], true)
		if err != nil {
			return err
		}
		if err := printResult(cmd, res); err != nil {
			return err
		}
		return res.Err()
	},
}

func init() {
	for _, c := range []*cobra.Command{buildCmd, submitCmd} {
		c.Flags().String("data", "", `Submission file (JSON or YAML), "-" for stdin`)
		rootCmd.AddCommand(c)
	}
}

func runPhase(cmd *cobra.Command, id string, submit bool) (*domain.Result, error) {
	_, _, eng, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	dataPath, _ := cmd.Flags().GetString("data")
	sub, err := cli.ReadSubmission(dataPath, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	if submit {
		return eng.Submit(cmd.Context(), id, sub)
	}
	return eng.Build(cmd.Context(), id, sub)
}

func printResult(cmd *cobra.Command, res *domain.Result) error {
	if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
		return cli.PrintJSON(cmd.OutOrStdout(), res)
	}
	if err := cli.PrintMarkdown(cmd.OutOrStdout(), tui.ResultMarkdown(res)); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}
	return nil
}
