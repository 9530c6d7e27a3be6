package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// BranchRefSpec maps a local branch onto the remote branch of the same name.
func BranchRefSpec(branch string) config.RefSpec {
	return config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
}

type PushInput struct {
	Repo *GitRepository
}

type PushOutput struct {
	Remote   string
	URL      string
	RefSpec  string
	Strategy StrategyKind
	UpToDate bool
}

type PushUseCase struct {
	resolver    *Resolver
	credentials func(*GitRepository) *CredentialResolver
	log         *slog.Logger
}

func NewPushUseCase(resolver *Resolver, logger *slog.Logger) *PushUseCase {
	return &PushUseCase{
		resolver:    resolver,
		credentials: NewCredentialResolver,
		log:         orDiscard(logger),
	}
}

// Execute makes a single push attempt of the current branch to origin.
func (uc *PushUseCase) Execute(ctx context.Context, input PushInput) (*PushOutput, error) {
	repo, err := uc.resolver.Resolve(input.Repo)
	if err != nil {
		return nil, err
	}

	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	refspec := BranchRefSpec(branch)
	if err := refspec.Validate(); err != nil {
		return nil, opError("push", ErrDetachedOrUnbornHead, err)
	}

	url, err := repo.ConfigValue("remote." + DefaultRemote + ".url")
	if err != nil {
		return nil, opError("push", ErrNoRemoteConfigured, err)
	}
	if url == "" {
		return nil, pathError("push", ErrNoRemoteConfigured, DefaultRemote, errors.New("remote.origin.url is not set"))
	}

	strategy := uc.credentials(repo).Resolve(url)

	remote, err := repo.repo.Remote(DefaultRemote)
	if err != nil {
		return nil, pathError("push", ErrRemoteNotFound, DefaultRemote, err)
	}

	out := &PushOutput{
		Remote:   DefaultRemote,
		URL:      url,
		RefSpec:  refspec.String(),
		Strategy: strategy.Kind(),
	}

	var auth transport.AuthMethod
	if ep, err := transport.NewEndpoint(url); err != nil || ep.Protocol != "file" {
		var user string
		if ep != nil {
			user = ep.User
		}
		auth, err = strategy.Credentials(ctx, url, user)
		if err != nil {
			return nil, opError("push", ErrPushRejected, err)
		}
	}

	uc.log.Debug("pushing", "remote", DefaultRemote, "refspec", out.RefSpec, "strategy", out.Strategy.String())

	err = remote.PushContext(ctx, &git.PushOptions{
		RemoteName: DefaultRemote,
		RefSpecs:   []config.RefSpec{refspec},
		Auth:       auth,
	})
	if auth != nil {
		uc.report(ctx, strategy, err)
	}
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		out.UpToDate = true
		return out, nil
	}
	if err != nil {
		return nil, opError("push", ErrPushRejected, err)
	}

	return out, nil
}

// report tells a credential store whether the credentials it supplied were
// accepted. Failures unrelated to authentication leave the store alone.
func (uc *PushUseCase) report(ctx context.Context, strategy CredentialStrategy, pushErr error) {
	fb, ok := strategy.(CredentialFeedback)
	if !ok {
		return
	}

	var err error
	switch {
	case pushErr == nil, errors.Is(pushErr, git.NoErrAlreadyUpToDate):
		err = fb.Approve(ctx)
	case errors.Is(pushErr, transport.ErrAuthenticationRequired),
		errors.Is(pushErr, transport.ErrAuthorizationFailed):
		err = fb.Reject(ctx)
	}
	if err != nil {
		uc.log.Debug("credential feedback failed", "error", err)
	}
}
