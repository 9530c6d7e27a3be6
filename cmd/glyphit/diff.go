package main

import (
	"fmt"
	"strings"

	"github.com/4thel00z/glyphit/internal"
	"github.com/spf13/cobra"
)

func NewDiffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show staged changes",
		Long:  `Show what the next commit would change compared to HEAD.`,
		Args:  cobra.NoArgs,
		RunE:  makeDiffRunner(a),
	}

	cmd.Flags().Bool("stat", false, "Only list the changed paths")
	return cmd
}

func makeDiffRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		stat, _ := cmd.Flags().GetBool("stat")

		out, err := a.uc.Diff.Execute(cmd.Context(), internal.DiffInput{Repo: a.repo})
		if err != nil {
			return fmt.Errorf("get diff: %w", err)
		}

		if stat {
			for _, f := range out.Files {
				fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s\n", f.Action, f.Path)
			}
			return nil
		}

		printDiff(cmd, out)
		return nil
	}
}

func printDiff(cmd *cobra.Command, out *internal.DiffOutput) {
	if len(out.Files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No staged changes.")
		return
	}

	for _, line := range strings.SplitAfter(out.Patch(), "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			text = headerStyle.Render(text)
		case strings.HasPrefix(text, "+"):
			text = addedStyle.Render(text)
		case strings.HasPrefix(text, "-"):
			text = removedStyle.Render(text)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
	}
}
