package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5/plumbing"
)

// UseCases bundles every operation the CLI and the v1 client expose.
type UseCases struct {
	Add    *AddUseCase
	Commit *CommitUseCase
	Push   *PushUseCase
	Ship   *ShipUseCase
	Status *StatusUseCase
	Log    *LogUseCase
	Diff   *DiffUseCase
}

func NewUseCases(resolver *Resolver, interactive MessageSource, logger *slog.Logger) *UseCases {
	add := NewAddUseCase(resolver, logger)
	commit := NewCommitUseCase(resolver, interactive, logger)
	push := NewPushUseCase(resolver, logger)

	return &UseCases{
		Add:    add,
		Commit: commit,
		Push:   push,
		Ship:   NewShipUseCase(add, commit, push),
		Status: NewStatusUseCase(resolver),
		Log:    NewLogUseCase(resolver),
		Diff:   NewDiffUseCase(resolver),
	}
}

// Ship

type ShipInput struct {
	Paths       []string
	Repo        *GitRepository
	Interactive bool
	Source      MessageSource
}

type ShipOutput struct {
	Add    *AddOutput
	Commit *CommitOutput
	Push   *PushOutput
}

// ShipUseCase runs add, commit and push in order, stopping at the first
// failure. Whatever completed before the failure stays in place.
type ShipUseCase struct {
	add    *AddUseCase
	commit *CommitUseCase
	push   *PushUseCase
}

func NewShipUseCase(add *AddUseCase, commit *CommitUseCase, push *PushUseCase) *ShipUseCase {
	return &ShipUseCase{add: add, commit: commit, push: push}
}

func (uc *ShipUseCase) Execute(ctx context.Context, input ShipInput) (*ShipOutput, error) {
	out := &ShipOutput{}

	var err error
	out.Add, err = uc.add.Execute(ctx, AddInput{Paths: input.Paths, Repo: input.Repo})
	if err != nil {
		return out, err
	}

	out.Commit, err = uc.commit.Execute(ctx, CommitInput{
		Repo:        input.Repo,
		Interactive: input.Interactive,
		Source:      input.Source,
	})
	if err != nil {
		return out, err
	}

	out.Push, err = uc.push.Execute(ctx, PushInput{Repo: input.Repo})
	if err != nil {
		return out, err
	}

	return out, nil
}

// Status

type StatusInput struct {
	Repo *GitRepository
}

type StatusUseCase struct {
	resolver *Resolver
}

func NewStatusUseCase(resolver *Resolver) *StatusUseCase {
	return &StatusUseCase{resolver: resolver}
}

func (uc *StatusUseCase) Execute(ctx context.Context, input StatusInput) (*Status, error) {
	repo, err := uc.resolver.Resolve(input.Repo)
	if err != nil {
		return nil, err
	}

	status := &Status{}

	head, err := repo.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return nil, fmt.Errorf("read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference {
		status.Branch = head.Target().Short()
	}

	commit, err := repo.headCommit()
	if err != nil {
		return nil, err
	}
	if commit != nil {
		status.Head = commit.Hash.String()
	}

	diffs, err := repo.StagedDiff(ctx)
	if err != nil {
		return nil, err
	}
	status.Staged = len(diffs)

	status.Remote, _ = repo.ConfigValue("remote." + DefaultRemote + ".url")

	return status, nil
}

// Log

type LogInput struct {
	Limit int
	Repo  *GitRepository
}

type LogOutput struct {
	Commits []*Commit
}

type LogUseCase struct {
	resolver *Resolver
}

func NewLogUseCase(resolver *Resolver) *LogUseCase {
	return &LogUseCase{resolver: resolver}
}

func (uc *LogUseCase) Execute(ctx context.Context, input LogInput) (*LogOutput, error) {
	repo, err := uc.resolver.Resolve(input.Repo)
	if err != nil {
		return nil, err
	}

	commits, err := repo.Log(ctx, input.Limit)
	if err != nil {
		return nil, err
	}

	return &LogOutput{Commits: commits}, nil
}

// Diff

type DiffInput struct {
	Repo *GitRepository
}

type DiffOutput struct {
	Files []FileDiff
}

// Patch joins the per-file patches.
func (o *DiffOutput) Patch() string {
	var s string
	for _, f := range o.Files {
		s += f.Patch
	}
	return s
}

type DiffUseCase struct {
	resolver *Resolver
}

func NewDiffUseCase(resolver *Resolver) *DiffUseCase {
	return &DiffUseCase{resolver: resolver}
}

func (uc *DiffUseCase) Execute(ctx context.Context, input DiffInput) (*DiffOutput, error) {
	repo, err := uc.resolver.Resolve(input.Repo)
	if err != nil {
		return nil, err
	}

	files, err := repo.StagedDiff(ctx)
	if err != nil {
		return nil, err
	}

	return &DiffOutput{Files: files}, nil
}

// IsAborted reports whether err came from the operator cancelling a prompt.
func IsAborted(err error) bool {
	return errors.Is(err, ErrSelectionAborted) || errors.Is(err, ErrCommitAborted)
}
