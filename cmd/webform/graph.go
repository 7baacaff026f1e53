package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drupalprojects/webform-sub000/internal/cli"
	"github.com/drupalprojects/webform-sub000/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <form-id>",
	Short: "Export the dependency graph of a form",
	Long: `Outputs a Mermaid diagram (graph TD) of the form tree and of the #states
dependencies between elements. With --data, hidden and changed elements are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, eng, err := setup(cmd)
		if err != nil {
			return err
		}
		defer eng.Close()

		form, err := eng.Inspect(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if dataPath, _ := cmd.Flags().GetString("data"); dataPath != "" {
			sub, err := cli.ReadSubmission(dataPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			res, err := eng.Build(cmd.Context(), args[0], sub)
			if err != nil {
				return err
			}
			overlay = graph.OverlayFromResult(res)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(form, overlay))
		return nil
	},
}

func init() {
	graphCmd.Flags().String("data", "", `Submission file used to highlight the built state, "-" for stdin`)
	rootCmd.AddCommand(graphCmd)
}
