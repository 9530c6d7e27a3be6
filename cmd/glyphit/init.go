package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/4thel00z/glyphit/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .glyphit.yaml",
		Long:  `Write the default configuration to .glyphit.yaml at the repository root.`,
		Args:  cobra.NoArgs,
		RunE:  makeInitRunner(a),
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}

func makeInitRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path := filepath.Join(a.root(), internal.ConfigFilename)
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("already initialized at %s", path)
		}

		if err := internal.SaveConfig(path, internal.DefaultConfig()); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	}
}
