package internal

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreMatcherEmpty(t *testing.T) {
	m, err := NewIgnoreMatcher(memfs.New(), nil)
	require.NoError(t, err)

	assert.False(t, m.Match("anything/goes"))
}

func TestIgnoreMatcherPatterns(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, ".gitignore", []byte("*.tmp\nsecret\nvendor/\n"), 0644))
	require.NoError(t, util.WriteFile(fs, "docs/.gitignore", []byte("draft.md\n"), 0644))

	m, err := NewIgnoreMatcher(fs, nil)
	require.NoError(t, err)

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"file.tmp", false, true},
		{"nested/file.tmp", false, true},
		{"secret", false, true},
		{"public", false, false},
		{"vendor", true, true},
		{"docs/draft.md", false, true},
		{"draft.md", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if tt.isDir {
				assert.Equal(t, tt.want, m.MatchDir(tt.path))
			} else {
				assert.Equal(t, tt.want, m.Match(tt.path))
			}
		})
	}
}

func TestIgnoreMatcherNegation(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, ".gitignore", []byte("*.log\n!keep.log\n"), 0644))

	m, err := NewIgnoreMatcher(fs, nil)
	require.NoError(t, err)

	assert.True(t, m.Match("debug.log"))
	assert.False(t, m.Match("keep.log"))
}

func TestIgnoreMatcherExcludesYieldToGitignore(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, ".gitignore", []byte("!local.env\n"), 0644))

	excludes := []gitignore.Pattern{gitignore.ParsePattern("*.env", nil)}
	m, err := NewIgnoreMatcher(fs, excludes)
	require.NoError(t, err)

	assert.True(t, m.Match("prod.env"))
	assert.False(t, m.Match("local.env"))
}

func TestIgnoreMatcherNil(t *testing.T) {
	var m *IgnoreMatcher
	assert.False(t, m.Match("x"))
	assert.False(t, m.MatchDir("x"))
}
