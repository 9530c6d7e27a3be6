package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Identity is the author and committer of a new commit.
type Identity struct {
	Name  string
	Email string
}

// ReadIdentity reads user.name and user.email; both must be set.
func (r *GitRepository) ReadIdentity() (Identity, error) {
	var id Identity
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"user.name", &id.Name},
		{"user.email", &id.Email},
	} {
		v, err := r.ConfigValue(f.key)
		if err != nil {
			return Identity{}, pathError("identity", ErrIdentityMissing, f.key, err)
		}
		if v == "" {
			return Identity{}, pathError("identity", ErrIdentityMissing, f.key, errors.New("not set"))
		}
		*f.dst = v
	}
	return id, nil
}

type CommitInput struct {
	Repo        *GitRepository
	Interactive bool

	// Source overrides the message mode chosen by Interactive.
	Source MessageSource
}

type CommitOutput struct {
	Hash      plumbing.Hash
	Message   string
	Parents   []plumbing.Hash
	Timestamp time.Time
}

type CommitUseCase struct {
	resolver    *Resolver
	interactive MessageSource
	log         *slog.Logger
	now         func() time.Time
}

// NewCommitUseCase wires the source used for interactive commits, usually a
// MessageBuilder on a terminal prompter.
func NewCommitUseCase(resolver *Resolver, interactive MessageSource, logger *slog.Logger) *CommitUseCase {
	return &CommitUseCase{
		resolver:    resolver,
		interactive: interactive,
		log:         orDiscard(logger),
		now:         time.Now,
	}
}

func (uc *CommitUseCase) Execute(ctx context.Context, input CommitInput) (*CommitOutput, error) {
	repo, err := uc.resolver.Resolve(input.Repo)
	if err != nil {
		return nil, err
	}

	id, err := repo.ReadIdentity()
	if err != nil {
		return nil, err
	}

	msg, err := uc.message(ctx, input)
	if err != nil {
		return nil, opError("commit", ErrCommitAborted, err)
	}

	idx, err := repo.readIndex()
	if err != nil {
		return nil, opError("commit", ErrTreeWrite, err)
	}
	tree, err := repo.writeTree(idx)
	if err != nil {
		return nil, opError("commit", ErrTreeWrite, err)
	}
	uc.log.Debug("wrote tree", "tree", tree.String())

	parent, err := repo.headCommit()
	if err != nil {
		return nil, opError("commit", ErrCommitCreation, err)
	}
	var parents []plumbing.Hash
	if parent != nil {
		parents = []plumbing.Hash{parent.Hash}
	}

	sig := object.Signature{Name: id.Name, Email: id.Email, When: uc.now()}
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      msg.String(),
		TreeHash:     tree,
		ParentHashes: parents,
	}

	hash, err := repo.storeObject(commit)
	if err != nil {
		return nil, opError("commit", ErrCommitCreation, err)
	}
	if err := repo.advanceHead(hash); err != nil {
		return nil, opError("commit", ErrCommitCreation, fmt.Errorf("advance HEAD: %w", err))
	}
	uc.log.Debug("created commit", "commit", hash.String(), "parents", len(parents))

	return &CommitOutput{
		Hash:      hash,
		Message:   commit.Message,
		Parents:   parents,
		Timestamp: sig.When,
	}, nil
}

func (uc *CommitUseCase) message(ctx context.Context, input CommitInput) (CommitMessage, error) {
	switch {
	case input.Source != nil:
		return input.Source.Message(ctx)
	case !input.Interactive:
		return PlaceholderSource().Message(ctx)
	case uc.interactive == nil:
		return CommitMessage{}, ErrNotInteractive
	}
	return uc.interactive.Message(ctx)
}
