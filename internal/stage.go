package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
)

// NormalizePath strips leading "./" (or ".\") prefixes and cleans p into
// the root-relative, slash-separated form the index stores. The worktree
// root normalizes to "".
func NormalizePath(p string) string {
	for {
		switch {
		case strings.HasPrefix(p, "./"), strings.HasPrefix(p, `.\`):
			p = p[2:]
		default:
			p = path.Clean(filepath.ToSlash(p))
			if p == "." {
				return ""
			}
			return p
		}
	}
}

type AddInput struct {
	Paths []string
	Repo  *GitRepository
}

type AddOutput struct {
	// Staged lists every path whose index entry changed, removals included.
	Staged []string
	// Removed lists the tracked paths dropped because the worktree file is
	// gone.
	Removed []string
}

type AddUseCase struct {
	resolver *Resolver
	log      *slog.Logger
}

func NewAddUseCase(resolver *Resolver, logger *slog.Logger) *AddUseCase {
	return &AddUseCase{resolver: resolver, log: orDiscard(logger)}
}

// Execute stages every path in input. Path expansion (missing files, ignored
// files, globs without matches) is checked before the index changes; once
// hashing starts, entries staged before a failing one are still written.
func (uc *AddUseCase) Execute(ctx context.Context, input AddInput) (*AddOutput, error) {
	repo, err := uc.resolver.Resolve(input.Repo)
	if err != nil {
		return nil, err
	}

	idx, err := repo.readIndex()
	if err != nil {
		return nil, opError("add", ErrIndexAccess, err)
	}

	ignore, err := NewIgnoreMatcher(repo.filesystem(), repo.worktree.Excludes)
	if err != nil {
		return nil, opError("add", ErrAddFailure, err)
	}

	s := &stager{repo: repo, idx: idx, ignore: ignore}

	var files []string
	seen := make(map[string]bool)
	for _, raw := range input.Paths {
		expanded, err := s.expand(NormalizePath(raw))
		if err != nil {
			return nil, err
		}
		for _, f := range expanded {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	var staged, removed []string
	var addErr error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			addErr = err
			break
		}
		gone, err := s.stage(f)
		if err != nil {
			addErr = pathError("add", ErrAddFailure, f, err)
			break
		}
		if gone {
			uc.log.Debug("removed path", "path", f)
			removed = append(removed, f)
		} else {
			uc.log.Debug("staged path", "path", f)
		}
		staged = append(staged, f)
	}

	if len(staged) > 0 || addErr == nil {
		if err := repo.writeIndex(idx); err != nil {
			return nil, opError("add", ErrIndexWrite, err)
		}
	}
	out := &AddOutput{Staged: staged, Removed: removed}
	if addErr != nil {
		return out, addErr
	}

	return out, nil
}

type stager struct {
	repo   *GitRepository
	idx    *index.Index
	ignore *IgnoreMatcher
}

func (s *stager) tracked(p string) bool {
	_, err := s.idx.Entry(p)
	return err == nil
}

// missingTracked returns index entries accepted by match whose worktree
// file no longer exists, sorted.
func (s *stager) missingTracked(match func(name string) bool) []string {
	fs := s.repo.filesystem()

	var names []string
	seen := make(map[string]bool)
	for _, e := range s.idx.Entries {
		if seen[e.Name] || !match(e.Name) {
			continue
		}
		seen[e.Name] = true
		if _, err := fs.Lstat(e.Name); os.IsNotExist(err) {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}

func under(dir string) func(string) bool {
	if dir == "" || dir == "." {
		return func(string) bool { return true }
	}
	return func(name string) bool {
		return name == dir || strings.HasPrefix(name, dir+"/")
	}
}

// expand turns one normalized pathspec into the files it names.
func (s *stager) expand(p string) ([]string, error) {
	fs := s.repo.filesystem()

	if p != "" && (p == ".git" || strings.HasPrefix(p, ".git/")) {
		return nil, pathError("add", ErrAddFailure, p, errors.New("path is inside the repository directory"))
	}

	target := p
	if target == "" {
		target = "."
	}

	info, err := fs.Lstat(target)
	switch {
	case err == nil && info.IsDir():
		return s.walk(target)
	case err == nil:
		if s.ignore.Match(p) && !s.tracked(p) {
			return nil, pathError("add", ErrAddFailure, p, errors.New("path is ignored"))
		}
		return []string{p}, nil
	case !os.IsNotExist(err):
		return nil, pathError("add", ErrAddFailure, p, err)
	}

	if gone := s.missingTracked(under(p)); len(gone) > 0 {
		return gone, nil
	}

	if !strings.ContainsAny(p, "*?[") {
		return nil, pathError("add", ErrAddFailure, p, errors.New("pathspec did not match any files"))
	}

	matches, err := util.Glob(fs, p)
	if err != nil {
		return nil, pathError("add", ErrAddFailure, p, err)
	}

	var files []string
	for _, m := range matches {
		m = filepath.ToSlash(m)
		mi, err := fs.Lstat(m)
		if err != nil {
			continue
		}
		if mi.IsDir() {
			sub, err := s.walk(m)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
			continue
		}
		if s.ignore.Match(m) && !s.tracked(m) {
			continue
		}
		files = append(files, m)
	}
	files = append(files, s.missingTracked(func(name string) bool {
		ok, _ := path.Match(p, name)
		return ok
	})...)

	if len(files) == 0 {
		return nil, pathError("add", ErrAddFailure, p, errors.New("pathspec did not match any files"))
	}
	return files, nil
}

func (s *stager) walk(root string) ([]string, error) {
	var files []string
	err := util.Walk(s.repo.filesystem(), root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		p = NormalizePath(p)
		if info.IsDir() {
			if p == "" {
				return nil
			}
			if path.Base(p) == ".git" || (s.ignore.MatchDir(p) && !s.tracked(p)) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.ignore.Match(p) && !s.tracked(p) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, pathError("add", ErrAddFailure, root, err)
	}
	files = append(files, s.missingTracked(under(NormalizePath(root)))...)

	sort.Strings(files)
	return files, nil
}

// stage hashes the worktree file at p into the object store and records it
// in the index at stage 0, replacing any conflict entries for the path. A
// tracked path missing from the worktree is removed from the index instead,
// and gone is true.
func (s *stager) stage(p string) (gone bool, err error) {
	fs := s.repo.filesystem()

	info, err := fs.Lstat(p)
	if os.IsNotExist(err) && s.tracked(p) {
		s.removeEntries(p)
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat: %w", err)
	}

	mode, err := filemode.NewFromOSFileMode(info.Mode())
	if err != nil {
		return false, fmt.Errorf("file mode: %w", err)
	}

	var hash plumbing.Hash
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := fs.Readlink(p)
		if err != nil {
			return false, fmt.Errorf("read link: %w", err)
		}
		hash, err = s.repo.writeBlob(strings.NewReader(target), int64(len(target)))
		if err != nil {
			return false, err
		}
	} else {
		f, err := fs.Open(p)
		if err != nil {
			return false, fmt.Errorf("open: %w", err)
		}
		hash, err = s.repo.writeBlob(f, info.Size())
		_ = f.Close()
		if err != nil {
			return false, err
		}
	}

	s.removeEntries(p)

	e := s.idx.Add(p)
	e.Hash = hash
	e.Mode = mode
	e.ModifiedAt = info.ModTime()
	e.Size = uint32(info.Size())
	return false, nil
}

func (s *stager) removeEntries(p string) {
	for {
		if _, err := s.idx.Remove(p); err != nil {
			return
		}
	}
}
