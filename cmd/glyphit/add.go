package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/4thel00z/glyphit/internal"
	"github.com/spf13/cobra"
)

func NewAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <path>...",
		Short: "Stage files",
		Long: `Stage files, directories or glob patterns. Paths are relative to the
working directory; directories stage every file that is not ignored.
Tracked files deleted from the working tree are removed from the index.`,
		Args: cobra.MinimumNArgs(1),
		RunE: makeAddRunner(a),
	}

	return cmd
}

func makeAddRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		paths, err := a.rootRelative(args)
		if err != nil {
			return err
		}

		out, err := a.uc.Add.Execute(cmd.Context(), internal.AddInput{Paths: paths, Repo: a.repo})
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}

		printAdd(cmd, out)
		return nil
	}
}

func printAdd(cmd *cobra.Command, out *internal.AddOutput) {
	removed := make(map[string]bool, len(out.Removed))
	for _, p := range out.Removed {
		removed[p] = true
	}
	for _, p := range out.Staged {
		mark := addedStyle.Render("+")
		if removed[p] {
			mark = removedStyle.Render("-")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, p)
	}
}

// rootRelative rebases arguments given relative to the working directory
// onto the repository root. When the working directory lies outside the
// repository (--repo elsewhere) relative arguments are taken as
// root-relative already.
func (a *app) rootRelative(args []string) ([]string, error) {
	root := evalSymlinks(a.root())

	cwd, err := a.getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	base := root
	if rel, err := filepath.Rel(root, evalSymlinks(cwd)); err == nil && !escapesRoot(rel) {
		base = filepath.Join(root, rel)
	}

	paths := make([]string, 0, len(args))
	for _, arg := range args {
		p := arg
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}

		// Resolve the parent only, so a symlink argument stages the link.
		p = filepath.Join(evalSymlinks(filepath.Dir(p)), filepath.Base(p))
		rel, err := filepath.Rel(root, p)
		if err != nil || escapesRoot(rel) {
			return nil, fmt.Errorf("path %q is outside repository %s", arg, a.root())
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	return paths, nil
}

func escapesRoot(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// evalSymlinks resolves p when it exists; globs and missing paths are
// returned cleaned but otherwise untouched.
func evalSymlinks(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}
