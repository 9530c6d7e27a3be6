package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/4thel00z/glyphit/internal"
)

func indexNames(t *testing.T, repo *internal.GitRepository) []string {
	t.Helper()
	entries, err := repo.IndexEntries(context.Background())
	if err != nil {
		t.Fatalf("index entries: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func TestAddCmd(t *testing.T) {
	repo := setupRepo(t)
	writeRepoFile(t, repo, "a.txt", "a")

	out, err := run(t, repo.Root(), nil, "add", "a.txt")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "a.txt") {
		t.Errorf("expected staged path in output, got %q", out)
	}

	names := indexNames(t, repo)
	if len(names) != 1 || names[0] != "a.txt" {
		t.Errorf("index = %v, want [a.txt]", names)
	}
}

func TestAddCmdFromSubdirectory(t *testing.T) {
	repo := setupRepo(t)
	writeRepoFile(t, repo, "pkg/util/util.go", "package util\n")
	writeRepoFile(t, repo, "pkg/main.go", "package main\n")

	sub := filepath.Join(repo.Root(), "pkg", "util")
	if _, err := run(t, sub, nil, "add", "./util.go", "../main.go"); err != nil {
		t.Fatalf("add: %v", err)
	}

	names := indexNames(t, repo)
	want := []string{"pkg/main.go", "pkg/util/util.go"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("index = %v, want %v", names, want)
	}
}

func TestAddCmdAbsolutePath(t *testing.T) {
	repo := setupRepo(t)
	writeRepoFile(t, repo, "abs.txt", "x")

	if _, err := run(t, t.TempDir(), nil, "--repo", repo.Root(), "add", filepath.Join(repo.Root(), "abs.txt")); err != nil {
		t.Fatalf("add: %v", err)
	}

	names := indexNames(t, repo)
	if len(names) != 1 || names[0] != "abs.txt" {
		t.Errorf("index = %v, want [abs.txt]", names)
	}
}

func TestAddCmdOutsideRepository(t *testing.T) {
	repo := setupRepo(t)
	outside := filepath.Join(t.TempDir(), "x.txt")
	if err := os.WriteFile(outside, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := run(t, repo.Root(), nil, "add", outside); err == nil {
		t.Error("expected error for a path outside the repository")
	}
}

func TestAddCmdMissingFile(t *testing.T) {
	repo := setupRepo(t)

	_, err := run(t, repo.Root(), nil, "add", "missing.txt")
	if !errors.Is(err, internal.ErrAddFailure) {
		t.Errorf("expected ErrAddFailure, got %v", err)
	}
}

func TestAddCmdRequiresArgs(t *testing.T) {
	repo := setupRepo(t)

	if _, err := run(t, repo.Root(), nil, "add"); err == nil {
		t.Error("expected error without paths")
	}
}

func TestAddCmdStagesDeletion(t *testing.T) {
	repo := setupRepo(t)
	writeRepoFile(t, repo, "keep.txt", "k")
	writeRepoFile(t, repo, "gone.txt", "g")
	if _, err := run(t, repo.Root(), nil, "add", "."); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := run(t, repo.Root(), nil, "commit", "--non-interactive"); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if err := os.Remove(filepath.Join(repo.Root(), "gone.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	out, err := run(t, repo.Root(), nil, "add", "gone.txt")
	if err != nil {
		t.Fatalf("add deleted path: %v", err)
	}
	if !strings.Contains(out, "gone.txt") {
		t.Errorf("expected removed path in output, got %q", out)
	}

	names := indexNames(t, repo)
	if len(names) != 1 || names[0] != "keep.txt" {
		t.Errorf("index = %v, want [keep.txt]", names)
	}
}
