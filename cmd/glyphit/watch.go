package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/4thel00z/glyphit/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]...",
		Short: "Re-stage files as they change",
		Long: `Watch the given paths (default: the working directory) and stage every
changed file that still exists. Ignored files are skipped.`,
		RunE: makeWatchRunner(a),
	}

	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for batching changes")
	return cmd
}

func makeWatchRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		if len(args) == 0 {
			args = []string{"."}
		}

		rel, err := a.rootRelative(args)
		if err != nil {
			return err
		}

		root := evalSymlinks(a.root())
		targets := make([]string, len(rel))
		for i, p := range rel {
			targets[i] = filepath.Join(root, filepath.FromSlash(p))
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		for _, t := range targets {
			dir := t
			if info, err := os.Stat(t); err == nil && !info.IsDir() {
				dir = filepath.Dir(t)
			}
			if err := addWatchDirs(watcher, dir); err != nil {
				return fmt.Errorf("add watch dirs: %w", err)
			}
		}

		gitDir := filepath.Join(root, ".git")
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes...\n", strings.Join(rel, ", "))

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := make(map[string]bool)

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if shouldIgnoreEvent(event, gitDir) || !covered(event.Name, targets) {
					continue
				}
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = addWatchDirs(watcher, event.Name)
					}
				}
				if len(pending) == 0 {
					timer.Reset(debounce)
				}
				pending[event.Name] = true
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				a.log.Warn("watch error: %v", err)
			case <-timer.C:
				batch := pendingFiles(pending, root)
				pending = make(map[string]bool)
				a.stageBatch(cmd, batch)
			}
		}
	}
}

// stageBatch stages each path on its own so one ignored or vanished file
// does not block the rest.
func (a *app) stageBatch(cmd *cobra.Command, paths []string) {
	for _, p := range paths {
		out, err := a.uc.Add.Execute(cmd.Context(), internal.AddInput{Paths: []string{p}, Repo: a.repo})
		if errors.Is(err, internal.ErrAddFailure) {
			a.log.Debug("skip %s: %v", p, err)
			continue
		}
		if err != nil {
			a.log.Warn("stage %s: %v", p, err)
			continue
		}
		printAdd(cmd, out)
	}
}

// pendingFiles turns changed absolute names into sorted root-relative paths
// of regular files that still exist.
func pendingFiles(pending map[string]bool, root string) []string {
	var files []string
	for name := range pending {
		info, err := os.Lstat(name)
		if err != nil || info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(root, name)
		if err != nil || escapesRoot(rel) {
			continue
		}
		files = append(files, filepath.ToSlash(rel))
	}
	sort.Strings(files)
	return files
}

func covered(name string, targets []string) bool {
	for _, t := range targets {
		if name == t || strings.HasPrefix(name, t+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

func shouldIgnoreEvent(event fsnotify.Event, gitDir string) bool {
	if event.Name == gitDir || strings.HasPrefix(event.Name, gitDir+string(filepath.Separator)) {
		return true
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}

	return false
}
