package main

import (
	"fmt"
	"strings"

	"github.com/4thel00z/glyphit/internal"
	"github.com/spf13/cobra"
)

func NewCommitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit staged changes with an emoji-tagged message",
		Long: `Commit the index. On a terminal the message is built interactively:
pick an emoji, then enter a title, a body and a breaking-changes note.`,
		Args: cobra.NoArgs,
		RunE: makeCommitRunner(a),
	}

	addMessageFlags(cmd)
	cmd.Flags().Bool("preview", false, "Print the staged diff before building the message")
	return cmd
}

func addMessageFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("non-interactive", false, "Skip the prompts and commit the placeholder message")
	cmd.Flags().StringP("message", "m", "", "Use this message verbatim")
	cmd.Flags().StringP("emoji", "e", "", "Emoji code from the catalog (e.g. bug or :bug:)")
	cmd.Flags().StringP("title", "t", "", "Commit title")
	cmd.Flags().StringP("body", "b", "", "Commit body")
	cmd.Flags().String("breaking", "", "Breaking changes description")
}

// messageInput picks the message mode from the flags: a literal message,
// a message composed from flags, the interactive builder, or the
// placeholder.
func (a *app) messageInput(cmd *cobra.Command) (internal.MessageSource, bool, error) {
	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")
	literal, _ := cmd.Flags().GetString("message")
	emoji, _ := cmd.Flags().GetString("emoji")
	title, _ := cmd.Flags().GetString("title")
	body, _ := cmd.Flags().GetString("body")
	breaking, _ := cmd.Flags().GetString("breaking")

	switch {
	case literal != "":
		return internal.StaticSource(internal.LiteralMessage(literal)), false, nil
	case emoji != "" || title != "" || body != "" || breaking != "":
		msg, err := internal.ComposeMessage(a.catalog, emoji, title, body, breaking)
		if err != nil {
			return nil, false, err
		}
		return internal.StaticSource(msg), false, nil
	case nonInteractive:
		return nil, false, nil
	case !a.canPrompt():
		return nil, false, fmt.Errorf("%w: pass --non-interactive or --emoji/--title", internal.ErrNotInteractive)
	}
	return nil, true, nil
}

func makeCommitRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		source, interactive, err := a.messageInput(cmd)
		if err != nil {
			return err
		}

		if preview, _ := cmd.Flags().GetBool("preview"); preview {
			diff, err := a.uc.Diff.Execute(cmd.Context(), internal.DiffInput{Repo: a.repo})
			if err != nil {
				return fmt.Errorf("diff: %w", err)
			}
			printDiff(cmd, diff)
		}

		out, err := a.uc.Commit.Execute(cmd.Context(), internal.CommitInput{
			Repo:        a.repo,
			Interactive: interactive,
			Source:      source,
		})
		if err != nil {
			return fmt.Errorf("commit: %w", err)
		}

		printCommit(cmd, out)
		return nil
	}
}

func printCommit(cmd *cobra.Command, out *internal.CommitOutput) {
	title, _, _ := strings.Cut(out.Message, "\n")
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", hashStyle.Render(shortHash(out.Hash.String())), title)
}
