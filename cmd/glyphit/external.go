package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

const pluginPrefix = "glyphit-"

// plugin is an executable named glyphit-<name> found on PATH.
type plugin struct {
	Name string
	Path string
}

// discoverPlugins scans pathList in order. When several directories hold
// the same plugin, the first one wins, as with command lookup.
func discoverPlugins(pathList string) []plugin {
	var plugins []plugin
	seen := make(map[string]bool)

	for _, dir := range filepath.SplitList(pathList) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			p, ok := pluginFromEntry(dir, entry)
			if !ok || seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			plugins = append(plugins, p)
		}
	}

	sort.Slice(plugins, func(i, j int) bool { return plugins[i].Name < plugins[j].Name })
	return plugins
}

func lookupPlugin(pathList, name string) (plugin, error) {
	for _, p := range discoverPlugins(pathList) {
		if p.Name == name {
			return p, nil
		}
	}
	return plugin{}, fmt.Errorf("unknown command %q: %s%s not found in PATH", name, pluginPrefix, name)
}

func pluginFromEntry(dir string, entry os.DirEntry) (plugin, bool) {
	name, ok := strings.CutPrefix(entry.Name(), pluginPrefix)
	if !ok || name == "" || entry.IsDir() {
		return plugin{}, false
	}

	path := filepath.Join(dir, entry.Name())
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Mode()&0111 == 0 {
		return plugin{}, false
	}
	return plugin{Name: name, Path: path}, true
}

func (p plugin) run(ctx context.Context, args, env []string) error {
	cmd := exec.CommandContext(ctx, p.Path, args...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// pluginEnv tells a plugin which glyphit launched it and, inside a
// repository, where the worktree is.
func pluginEnv(base []string, version, bin, root string) []string {
	env := append(base[:len(base):len(base)],
		"GLYPHIT_VERSION="+version,
		"GLYPHIT_BIN="+bin,
	)
	if root != "" {
		env = append(env, "GLYPHIT_ROOT="+root)
	}
	return env
}

// runPlugin hands an unknown subcommand to its plugin. It reports false
// when args name a built-in command or no plugin matches.
func runPlugin(ctx context.Context, root *cobra.Command, args []string, version string) (bool, error) {
	if len(args) == 0 || args[0] == "" || args[0][0] == '-' {
		return false, nil
	}
	if c, _, err := root.Find(args[:1]); err == nil && c != root {
		return false, nil
	}

	p, err := lookupPlugin(os.Getenv("PATH"), args[0])
	if err != nil {
		return false, nil
	}

	bin, _ := os.Executable()
	env := pluginEnv(os.Environ(), version, bin, discoverRoot())
	if err := p.run(ctx, args[1:], env); err != nil {
		return true, fmt.Errorf("glyphit %s: %w", p.Name, err)
	}
	return true, nil
}

func setHelpWithPlugins(cmd *cobra.Command) {
	defaultHelp := cmd.HelpFunc()

	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		defaultHelp(c, args)
		if c == c.Root() {
			printPlugins(c)
		}
	})
}

func printPlugins(cmd *cobra.Command) {
	plugins := discoverPlugins(os.Getenv("PATH"))
	if len(plugins) == 0 {
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nPlugins (%s*):\n", pluginPrefix)
	for _, p := range plugins {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-16s %s\n", p.Name, mutedStyle.Render(p.Path))
	}
}
