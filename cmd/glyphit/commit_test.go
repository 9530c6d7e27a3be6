package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/4thel00z/glyphit/internal"
)

func headMessage(t *testing.T, repo *internal.GitRepository) string {
	t.Helper()
	commits, err := repo.Log(context.Background(), 1)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(commits) == 0 {
		return ""
	}
	return commits[0].Message
}

func TestCommitCmdNonInteractive(t *testing.T) {
	repo := setupRepo(t)
	writeRepoFile(t, repo, "a.txt", "a")
	if _, err := run(t, repo.Root(), nil, "add", "a.txt"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := run(t, repo.Root(), nil, "commit", "--non-interactive")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !strings.Contains(out, internal.PlaceholderMessage) {
		t.Errorf("expected placeholder title in output, got %q", out)
	}
	if got := headMessage(t, repo); got != internal.PlaceholderMessage {
		t.Errorf("message = %q, want %q", got, internal.PlaceholderMessage)
	}
}

func TestCommitCmdWithoutTerminal(t *testing.T) {
	repo := setupRepo(t)

	_, err := run(t, repo.Root(), nil, "commit")
	if !errors.Is(err, internal.ErrNotInteractive) {
		t.Errorf("expected ErrNotInteractive, got %v", err)
	}
	if got := headMessage(t, repo); got != "" {
		t.Errorf("expected no commit, HEAD has %q", got)
	}
}

func TestCommitCmdComposedFromFlags(t *testing.T) {
	repo := setupRepo(t)

	_, err := run(t, repo.Root(), nil, "commit", "--emoji", "bug", "--title", "fix parser", "--body", "details", "--breaking", "none")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	want := "🐛fix parser\ndetails\nBREAKING CHANGES: none\n"
	if got := headMessage(t, repo); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestCommitCmdUnknownEmoji(t *testing.T) {
	repo := setupRepo(t)

	if _, err := run(t, repo.Root(), nil, "commit", "--emoji", "nope", "--title", "x"); err == nil {
		t.Error("expected error for unknown emoji code")
	}
}

func TestCommitCmdLiteralMessage(t *testing.T) {
	repo := setupRepo(t)

	if _, err := run(t, repo.Root(), nil, "commit", "-m", "chore: literal"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if got := headMessage(t, repo); got != "chore: literal" {
		t.Errorf("message = %q, want %q", got, "chore: literal")
	}
}

func TestCommitCmdInteractive(t *testing.T) {
	repo := setupRepo(t)
	p := &internal.ScriptedPrompter{Choices: []int{5}, Inputs: []string{"add watch", "", ""}}

	if _, err := run(t, repo.Root(), p, "commit"); err != nil {
		t.Fatalf("commit: %v", err)
	}

	want := "✨add watch\n\nBREAKING CHANGES: \n"
	if got := headMessage(t, repo); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestCommitCmdAborted(t *testing.T) {
	repo := setupRepo(t)

	_, err := run(t, repo.Root(), &internal.ScriptedPrompter{}, "commit")
	if !errors.Is(err, internal.ErrCommitAborted) {
		t.Errorf("expected ErrCommitAborted, got %v", err)
	}
}

func TestCommitCmdPreview(t *testing.T) {
	repo := setupRepo(t)
	writeRepoFile(t, repo, "a.txt", "hello\n")
	if _, err := run(t, repo.Root(), nil, "add", "a.txt"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := run(t, repo.Root(), nil, "commit", "--preview", "--non-interactive")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !strings.Contains(out, "+++ b/a.txt") || !strings.Contains(out, "+hello") {
		t.Errorf("expected staged diff in output, got %q", out)
	}
}

func TestCommitCmdIdentityMissing(t *testing.T) {
	setupRepo(t)
	repo, err := internal.InitRepository(t.TempDir())
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	_, err = run(t, repo.Root(), nil, "commit", "--non-interactive")
	if !errors.Is(err, internal.ErrIdentityMissing) {
		t.Errorf("expected ErrIdentityMissing, got %v", err)
	}
}
