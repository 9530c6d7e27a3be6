package internal

import (
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreMatcher answers whether a root-relative, slash-separated path is
// excluded by the worktree's .gitignore files or core excludes.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

func NewIgnoreMatcher(fs billy.Filesystem, excludes []gitignore.Pattern) (*IgnoreMatcher, error) {
	patterns, err := gitignore.ReadPatterns(fs, nil)
	if err != nil {
		return nil, fmt.Errorf("read ignore patterns: %w", err)
	}

	// Later patterns win, so per-directory rules go last.
	all := make([]gitignore.Pattern, 0, len(excludes)+len(patterns))
	all = append(all, excludes...)
	all = append(all, patterns...)

	return &IgnoreMatcher{matcher: gitignore.NewMatcher(all)}, nil
}

func (m *IgnoreMatcher) Match(path string) bool {
	return m.match(path, false)
}

func (m *IgnoreMatcher) MatchDir(path string) bool {
	return m.match(path, true)
}

func (m *IgnoreMatcher) match(path string, isDir bool) bool {
	if m == nil || path == "" {
		return false
	}
	return m.matcher.Match(strings.Split(path, "/"), isDir)
}
