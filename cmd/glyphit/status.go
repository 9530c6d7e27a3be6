package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/glyphit/internal"
	"github.com/spf13/cobra"
)

func NewStatusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show branch, HEAD and staged changes",
		Long:  `Show the current branch, the commit HEAD points at, how many paths are staged and where origin points.`,
		Args:  cobra.NoArgs,
		RunE:  makeStatusRunner(a),
	}

	return cmd
}

func makeStatusRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := a.uc.Status.Execute(cmd.Context(), internal.StatusInput{Repo: a.repo})
		if err != nil {
			return fmt.Errorf("get status: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"branch": s.Branch,
				"head":   s.Head,
				"staged": s.Staged,
				"remote": s.Remote,
			})
		}

		w := cmd.OutOrStdout()
		if s.Branch != "" {
			fmt.Fprintf(w, "On branch %s\n", s.Branch)
		} else {
			fmt.Fprintln(w, "HEAD detached")
		}

		if s.Head == "" {
			fmt.Fprintln(w, mutedStyle.Render("No commits yet"))
		} else {
			fmt.Fprintf(w, "HEAD at %s\n", hashStyle.Render(shortHash(s.Head)))
		}

		switch s.Staged {
		case 0:
			fmt.Fprintln(w, "Nothing staged")
		case 1:
			fmt.Fprintln(w, "1 path staged")
		default:
			fmt.Fprintf(w, "%d paths staged\n", s.Staged)
		}

		if s.Remote == "" {
			fmt.Fprintln(w, mutedStyle.Render("No origin configured"))
		} else {
			fmt.Fprintf(w, "origin %s\n", s.Remote)
		}
		return nil
	}
}
