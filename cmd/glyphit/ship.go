package main

import (
	"fmt"

	"github.com/4thel00z/glyphit/internal"
	"github.com/spf13/cobra"
)

func NewShipCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ship [path]...",
		Short: "Stage, commit and push in one go",
		Long: `Stage the given paths (default: the working directory), commit them
and push the current branch to origin. Stops at the first failing step.`,
		RunE: makeShipRunner(a),
	}

	addMessageFlags(cmd)
	return cmd
}

func makeShipRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		paths, err := a.rootRelative(args)
		if err != nil {
			return err
		}

		source, interactive, err := a.messageInput(cmd)
		if err != nil {
			return err
		}

		out, err := a.uc.Ship.Execute(cmd.Context(), internal.ShipInput{
			Paths:       paths,
			Repo:        a.repo,
			Interactive: interactive,
			Source:      source,
		})
		if out != nil && out.Add != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Staged %d path(s)\n", len(out.Add.Staged))
		}
		if out != nil && out.Commit != nil {
			printCommit(cmd, out.Commit)
		}
		if err != nil {
			return fmt.Errorf("ship: %w", err)
		}

		printPush(cmd, out.Push)
		return nil
	}
}
