package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexNames(t *testing.T, repo *GitRepository) []string {
	t.Helper()
	entries, err := repo.IndexEntries(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a.txt", "a.txt"},
		{"./a.txt", "a.txt"},
		{"././a.txt", "a.txt"},
		{`.\a.txt`, "a.txt"},
		{"dir/../a.txt", "a.txt"},
		{"dir//b.txt", "dir/b.txt"},
		{".", ""},
		{"./", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizePath(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizePath(got), "normalization must be idempotent")
		})
	}
}

func TestAddStagesFileAtStageZero(t *testing.T) {
	repo := setupGitRepo(t)
	writeFile(t, repo, "a.txt", "hello\n")

	uc := NewAddUseCase(NewResolver(), nil)
	out, err := uc.Execute(context.Background(), AddInput{Paths: []string{"./a.txt"}, Repo: repo})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, out.Staged)

	idx, err := repo.readIndex()
	require.NoError(t, err)
	e, err := idx.Entry("a.txt")
	require.NoError(t, err)
	assert.Equal(t, index.Stage(0), e.Stage)
	assert.EqualValues(t, 6, e.Size)

	blob, err := repo.blobContents(e.Hash)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", blob)
}

func TestAddRestagesModifiedFile(t *testing.T) {
	repo := setupGitRepo(t)
	uc := NewAddUseCase(NewResolver(), nil)
	ctx := context.Background()

	writeFile(t, repo, "a.txt", "one\n")
	_, err := uc.Execute(ctx, AddInput{Paths: []string{"a.txt"}, Repo: repo})
	require.NoError(t, err)

	writeFile(t, repo, "a.txt", "two\n")
	_, err = uc.Execute(ctx, AddInput{Paths: []string{"a.txt"}, Repo: repo})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt"}, indexNames(t, repo))

	idx, err := repo.readIndex()
	require.NoError(t, err)
	e, err := idx.Entry("a.txt")
	require.NoError(t, err)
	blob, err := repo.blobContents(e.Hash)
	require.NoError(t, err)
	assert.Equal(t, "two\n", blob)
}

func TestAddMissingFileLeavesIndexUnchanged(t *testing.T) {
	repo := setupGitRepo(t)
	writeFile(t, repo, "a.txt", "a")

	uc := NewAddUseCase(NewResolver(), nil)
	_, err := uc.Execute(context.Background(), AddInput{Paths: []string{"a.txt", "missing.txt"}, Repo: repo})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAddFailure)

	assert.Empty(t, indexNames(t, repo))
}

func TestAddIgnoredFileFails(t *testing.T) {
	repo := setupGitRepo(t)
	writeFile(t, repo, ".gitignore", "*.log\n")
	writeFile(t, repo, "debug.log", "noise")

	uc := NewAddUseCase(NewResolver(), nil)
	_, err := uc.Execute(context.Background(), AddInput{Paths: []string{"debug.log"}, Repo: repo})
	assert.ErrorIs(t, err, ErrAddFailure)
}

func TestAddDirectorySkipsIgnored(t *testing.T) {
	repo := setupGitRepo(t)
	writeFile(t, repo, ".gitignore", "*.log\nbuild/\n")
	writeFile(t, repo, "src/main.go", "package main\n")
	writeFile(t, repo, "src/util/util.go", "package util\n")
	writeFile(t, repo, "src/trace.log", "noise")
	writeFile(t, repo, "build/out.bin", "bin")

	uc := NewAddUseCase(NewResolver(), nil)
	out, err := uc.Execute(context.Background(), AddInput{Paths: []string{"."}, Repo: repo})
	require.NoError(t, err)
	assert.Equal(t, []string{".gitignore", "src/main.go", "src/util/util.go"}, out.Staged)
}

func TestAddGlob(t *testing.T) {
	repo := setupGitRepo(t)
	writeFile(t, repo, "a.go", "a")
	writeFile(t, repo, "b.go", "b")
	writeFile(t, repo, "c.txt", "c")

	uc := NewAddUseCase(NewResolver(), nil)
	out, err := uc.Execute(context.Background(), AddInput{Paths: []string{"*.go"}, Repo: repo})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.go", "b.go"}, out.Staged)

	_, err = uc.Execute(context.Background(), AddInput{Paths: []string{"*.rs"}, Repo: repo})
	assert.ErrorIs(t, err, ErrAddFailure)
}

func TestAddRejectsGitDir(t *testing.T) {
	repo := setupGitRepo(t)

	uc := NewAddUseCase(NewResolver(), nil)
	_, err := uc.Execute(context.Background(), AddInput{Paths: []string{".git/config"}, Repo: repo})
	assert.ErrorIs(t, err, ErrAddFailure)
}

func TestAddDeduplicatesPaths(t *testing.T) {
	repo := setupGitRepo(t)
	writeFile(t, repo, "a.txt", "a")

	uc := NewAddUseCase(NewResolver(), nil)
	out, err := uc.Execute(context.Background(), AddInput{Paths: []string{"a.txt", "./a.txt", "*.txt"}, Repo: repo})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, out.Staged)
}

func TestAddExecutableMode(t *testing.T) {
	repo := setupGitRepo(t)
	p := filepath.Join(repo.Root(), "run.sh")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), 0755))

	uc := NewAddUseCase(NewResolver(), nil)
	_, err := uc.Execute(context.Background(), AddInput{Paths: []string{"run.sh"}, Repo: repo})
	require.NoError(t, err)

	idx, err := repo.readIndex()
	require.NoError(t, err)
	e, err := idx.Entry("run.sh")
	require.NoError(t, err)
	assert.Equal(t, "0100755", e.Mode.String())
}

func commitTracked(t *testing.T, repo *GitRepository, paths ...string) {
	t.Helper()
	stageAll(t, repo, paths...)
	_, err := NewCommitUseCase(NewResolver(), nil, nil).Execute(context.Background(), CommitInput{Repo: repo})
	require.NoError(t, err)
}

func TestAddRecordsDeletedFiles(t *testing.T) {
	tests := []struct {
		name    string
		paths   []string
		remove  string
		removed []string
		index   []string
	}{
		{
			name:    "directory",
			paths:   []string{"."},
			remove:  "gone.txt",
			removed: []string{"gone.txt"},
			index:   []string{"keep.txt", "sub/x.txt"},
		},
		{
			name:    "exact path",
			paths:   []string{"gone.txt"},
			remove:  "gone.txt",
			removed: []string{"gone.txt"},
			index:   []string{"keep.txt", "sub/x.txt"},
		},
		{
			name:    "deleted directory",
			paths:   []string{"sub"},
			remove:  "sub",
			removed: []string{"sub/x.txt"},
			index:   []string{"gone.txt", "keep.txt"},
		},
		{
			name:    "glob",
			paths:   []string{"*.txt"},
			remove:  "gone.txt",
			removed: []string{"gone.txt"},
			index:   []string{"keep.txt", "sub/x.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupGitRepo(t)
			writeFile(t, repo, "keep.txt", "k")
			writeFile(t, repo, "gone.txt", "g")
			writeFile(t, repo, "sub/x.txt", "x")
			commitTracked(t, repo, ".")

			require.NoError(t, os.RemoveAll(filepath.Join(repo.Root(), tt.remove)))

			out, err := NewAddUseCase(NewResolver(), nil).Execute(context.Background(), AddInput{Paths: tt.paths, Repo: repo})
			require.NoError(t, err)
			assert.Equal(t, tt.removed, out.Removed)
			assert.Subset(t, out.Staged, tt.removed)
			assert.Equal(t, tt.index, indexNames(t, repo))
		})
	}
}

func TestAddMissingUntrackedStillFails(t *testing.T) {
	repo := setupGitRepo(t)
	writeFile(t, repo, "keep.txt", "k")
	commitTracked(t, repo, "keep.txt")

	_, err := NewAddUseCase(NewResolver(), nil).Execute(context.Background(), AddInput{Paths: []string{"never.txt"}, Repo: repo})
	assert.ErrorIs(t, err, ErrAddFailure)
	assert.Equal(t, []string{"keep.txt"}, indexNames(t, repo))
}

func TestCommitAfterDeletionDropsPath(t *testing.T) {
	repo := setupGitRepo(t)
	writeFile(t, repo, "keep.txt", "k")
	writeFile(t, repo, "gone.txt", "g")
	commitTracked(t, repo, ".")

	require.NoError(t, os.Remove(filepath.Join(repo.Root(), "gone.txt")))
	commitTracked(t, repo, ".")

	head, err := repo.headCommit()
	require.NoError(t, err)
	_, err = head.File("gone.txt")
	assert.Error(t, err)
	_, err = head.File("keep.txt")
	assert.NoError(t, err)
}
