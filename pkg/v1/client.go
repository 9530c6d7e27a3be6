package v1

import (
	"context"
	"fmt"

	"github.com/4thel00z/glyphit/internal"
)

// Client provides programmatic access to add, commit and push. It never
// prompts.
type Client struct {
	uc      *internal.UseCases
	repo    *internal.GitRepository
	catalog *internal.Catalog
}

// New opens the repository and creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	resolver := internal.NewResolver()
	repo, err := resolver.Open(cfg.path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	catalog := internal.DefaultCatalog()
	if cfg.catalog != "" {
		if catalog, err = internal.LoadCatalog(cfg.catalog); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	return &Client{
		uc:      internal.NewUseCases(resolver, nil, cfg.logger),
		repo:    repo,
		catalog: catalog,
	}, nil
}

// Root returns the working tree root of the repository.
func (c *Client) Root() string {
	return c.repo.Root()
}

// Add stages paths given relative to the repository root.
func (c *Client) Add(ctx context.Context, paths ...string) ([]string, error) {
	out, err := c.uc.Add.Execute(ctx, internal.AddInput{Paths: paths, Repo: c.repo})
	if err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}
	return out.Staged, nil
}

// Commit records the index as a new commit on HEAD.
func (c *Client) Commit(ctx context.Context, msg Message) (*Commit, error) {
	source, err := c.source(msg)
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	out, err := c.uc.Commit.Execute(ctx, internal.CommitInput{Repo: c.repo, Source: source})
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &Commit{
		Hash:      out.Hash.String(),
		Message:   out.Message,
		Timestamp: out.Timestamp,
	}, nil
}

func (c *Client) source(msg Message) (internal.MessageSource, error) {
	switch {
	case msg.Raw != "":
		return internal.StaticSource(internal.LiteralMessage(msg.Raw)), nil
	case msg.empty():
		return internal.PlaceholderSource(), nil
	}

	m, err := internal.ComposeMessage(c.catalog, msg.Emoji, msg.Title, msg.Body, msg.Breaking)
	if err != nil {
		return nil, err
	}
	return internal.StaticSource(m), nil
}

// Push sends the current branch to origin.
func (c *Client) Push(ctx context.Context) (*PushResult, error) {
	out, err := c.uc.Push.Execute(ctx, internal.PushInput{Repo: c.repo})
	if err != nil {
		return nil, fmt.Errorf("push: %w", err)
	}
	return &PushResult{
		Remote:   out.Remote,
		URL:      out.URL,
		RefSpec:  out.RefSpec,
		Strategy: out.Strategy.String(),
		UpToDate: out.UpToDate,
	}, nil
}

// Log returns up to limit commits reachable from HEAD, newest first.
func (c *Client) Log(ctx context.Context, limit int) ([]Commit, error) {
	out, err := c.uc.Log.Execute(ctx, internal.LogInput{Limit: limit, Repo: c.repo})
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}

	commits := make([]Commit, 0, len(out.Commits))
	for _, cm := range out.Commits {
		commits = append(commits, Commit{
			Hash:      cm.Hash,
			Message:   cm.Message,
			Author:    cm.Author,
			Timestamp: cm.Timestamp,
		})
	}
	return commits, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}
