package main

import (
	"fmt"

	"github.com/4thel00z/glyphit/internal"
	"github.com/spf13/cobra"
)

func NewPushCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push the current branch to origin",
		Long: `Push the current branch to the branch of the same name on origin.
HTTPS remotes authenticate through git's credential helpers, everything
else through the running SSH agent.`,
		Args: cobra.NoArgs,
		RunE: makePushRunner(a),
	}

	return cmd
}

func makePushRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		out, err := a.uc.Push.Execute(cmd.Context(), internal.PushInput{Repo: a.repo})
		if err != nil {
			return fmt.Errorf("push: %w", err)
		}

		printPush(cmd, out)
		return nil
	}
}

func printPush(cmd *cobra.Command, out *internal.PushOutput) {
	if out.UpToDate {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Everything up-to-date"))
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s (%s)\n",
		successStyle.Render("Pushed"), out.RefSpec, out.Remote, out.URL)
}
