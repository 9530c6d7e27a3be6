package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/glyphit/internal"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

func NewEmojisCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "emojis [query]",
		Short:       "List the emoji catalog",
		Long:        `List the commit categories offered by the menu, best fuzzy matches first when a query is given.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationNoRepo: "true"},
		RunE:        makeEmojisRunner(a),
	}

	return cmd
}

func makeEmojisRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		emojis := a.catalog.Emojis
		if len(args) == 1 {
			emojis = searchCatalog(a.catalog, args[0])
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(emojis)
		}

		for _, e := range emojis {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", e.Glyph, hashStyle.Render(":"+e.Code+":"), e.Description)
		}
		return nil
	}
}

// searchCatalog ranks entries by fuzzy match against code and description.
func searchCatalog(c *internal.Catalog, query string) []internal.Emoji {
	targets := make([]string, len(c.Emojis))
	for i, e := range c.Emojis {
		targets[i] = e.Code + " " + e.Description
	}

	matches := fuzzy.Find(query, targets)
	out := make([]internal.Emoji, 0, len(matches))
	for _, m := range matches {
		out = append(out, c.Emojis[m.Index])
	}
	return out
}
