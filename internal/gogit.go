package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	format "github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const DefaultRemote = "origin"

// GitRepository is the repository handle every operation borrows. It is
// opened once by the caller and never cached by the engine.
type GitRepository struct {
	repo     *git.Repository
	worktree *git.Worktree
	rootPath string
}

// OpenRepository opens the repository whose worktree contains path,
// walking upward until a .git entry is found.
func OpenRepository(path string) (*GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, pathError("open", ErrRepositoryNotFound, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return wrapRepository(repo)
}

// InitRepository creates an empty repository with an unborn HEAD at path.
func InitRepository(path string) (*GitRepository, error) {
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}
	return wrapRepository(repo)
}

func wrapRepository(repo *git.Repository) (*GitRepository, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	return &GitRepository{
		repo:     repo,
		worktree: worktree,
		rootPath: worktree.Filesystem.Root(),
	}, nil
}

// Root is the absolute path of the worktree.
func (r *GitRepository) Root() string {
	return r.rootPath
}

// Repository exposes the underlying go-git handle.
func (r *GitRepository) Repository() *git.Repository {
	return r.repo
}

func (r *GitRepository) filesystem() billy.Filesystem {
	return r.worktree.Filesystem
}

// Index operations

func (r *GitRepository) readIndex() (*index.Index, error) {
	return r.repo.Storer.Index()
}

func (r *GitRepository) writeIndex(idx *index.Index) error {
	return r.repo.Storer.SetIndex(idx)
}

// IndexEntries lists the paths currently recorded in the index.
func (r *GitRepository) IndexEntries(ctx context.Context) ([]*index.Entry, error) {
	idx, err := r.readIndex()
	if err != nil {
		return nil, opError("index", ErrIndexAccess, err)
	}
	return idx.Entries, nil
}

func (r *GitRepository) writeBlob(content io.Reader, size int64) (plumbing.Hash, error) {
	obj := r.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(size)

	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("open blob writer: %w", err)
	}
	if _, err := io.Copy(w, content); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", err)
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("close blob: %w", err)
	}

	return r.repo.Storer.SetEncodedObject(obj)
}

// Object lookups

func (r *GitRepository) TreeObject(hash plumbing.Hash) (*object.Tree, error) {
	return r.repo.TreeObject(hash)
}

func (r *GitRepository) CommitObject(hash plumbing.Hash) (*object.Commit, error) {
	return r.repo.CommitObject(hash)
}

// HEAD

// headCommit returns the commit HEAD resolves to, or nil when HEAD names a
// branch that has no commits yet.
func (r *GitRepository) headCommit() (*object.Commit, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("get HEAD commit: %w", err)
	}
	return commit, nil
}

// CurrentBranch returns HEAD's short branch name.
func (r *GitRepository) CurrentBranch(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", opError("head", ErrDetachedOrUnbornHead, err)
	}
	if !head.Name().IsBranch() {
		return "", opError("head", ErrDetachedOrUnbornHead, fmt.Errorf("HEAD points at %s", head.Hash()))
	}
	return head.Name().Short(), nil
}

// advanceHead moves the branch HEAD names (or HEAD itself when detached) to
// hash.
func (r *GitRepository) advanceHead(hash plumbing.Hash) error {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return fmt.Errorf("read HEAD: %w", err)
	}

	name := plumbing.HEAD
	if head.Type() == plumbing.SymbolicReference {
		name = head.Target()
	}

	return r.repo.Storer.SetReference(plumbing.NewHashReference(name, hash))
}

// Configuration

// ConfigValue reads section.key (or section.subsection.key) from the
// repository configuration, falling back to the user's global git config.
func (r *GitRepository) ConfigValue(key string) (string, error) {
	section, subsection, option, err := splitConfigKey(key)
	if err != nil {
		return "", err
	}

	local, err := r.repo.Config()
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	if v := rawOption(local, section, subsection, option); v != "" {
		return v, nil
	}

	global, err := config.LoadConfig(config.GlobalScope)
	if err != nil {
		return "", fmt.Errorf("read global config: %w", err)
	}
	return rawOption(global, section, subsection, option), nil
}

// SetConfigValue writes key into the repository-local configuration.
func (r *GitRepository) SetConfigValue(key, value string) error {
	section, subsection, option, err := splitConfigKey(key)
	if err != nil {
		return err
	}

	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if subsection == "" {
		cfg.Raw.Section(section).SetOption(option, value)
	} else {
		cfg.Raw.Section(section).Subsection(subsection).SetOption(option, value)
	}

	// Re-read the raw form so typed fields (User, Remotes) follow it;
	// Config.Marshal would drop raw remotes it does not know about.
	var buf bytes.Buffer
	if err := format.NewEncoder(&buf).Encode(cfg.Raw); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	fresh := config.NewConfig()
	if err := fresh.Unmarshal(buf.Bytes()); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	if err := r.repo.SetConfig(fresh); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func splitConfigKey(key string) (section, subsection, option string, err error) {
	first := strings.Index(key, ".")
	last := strings.LastIndex(key, ".")
	if first <= 0 || last == len(key)-1 {
		return "", "", "", fmt.Errorf("invalid config key %q", key)
	}

	section = key[:first]
	option = key[last+1:]
	if first != last {
		subsection = key[first+1 : last]
	}
	return section, subsection, option, nil
}

func rawOption(cfg *config.Config, section, subsection, option string) string {
	if cfg == nil || cfg.Raw == nil || !cfg.Raw.HasSection(section) {
		return ""
	}
	s := cfg.Raw.Section(section)
	if subsection == "" {
		return s.Option(option)
	}
	if !s.HasSubsection(subsection) {
		return ""
	}
	return s.Subsection(subsection).Option(option)
}

// History

func (r *GitRepository) Log(ctx context.Context, limit int) ([]*Commit, error) {
	if c, err := r.headCommit(); err != nil || c == nil {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	var commits []*Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(commits) >= limit {
			return io.EOF
		}
		commits = append(commits, toCommit(c))
		return nil
	})
	if err != nil && err != io.EOF {
		return nil, err
	}

	return commits, nil
}

func toCommit(c *object.Commit) *Commit {
	var parents []string
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return &Commit{
		Hash:      c.Hash.String(),
		Message:   c.Message,
		Author:    c.Author.Name,
		Email:     c.Author.Email,
		Timestamp: c.Author.When,
		Parents:   parents,
	}
}
