package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sergi/go-diff/diffmatchpatch"
)

type ChangeAction string

const (
	ChangeAdded    ChangeAction = "added"
	ChangeModified ChangeAction = "modified"
	ChangeDeleted  ChangeAction = "deleted"
)

// FileDiff is one path whose staged content differs from HEAD.
type FileDiff struct {
	Path   string
	Action ChangeAction
	Patch  string
}

// StagedDiff compares the index against HEAD's tree; on an unborn branch
// every staged path is an addition.
func (r *GitRepository) StagedDiff(ctx context.Context) ([]FileDiff, error) {
	head, err := r.headTree()
	if err != nil {
		return nil, err
	}

	idx, err := r.readIndex()
	if err != nil {
		return nil, opError("diff", ErrIndexAccess, err)
	}

	staged := make(map[string]plumbing.Hash, len(idx.Entries))
	for _, e := range idx.Entries {
		if e.Mode == filemode.Submodule || e.IntentToAdd {
			continue
		}
		staged[e.Name] = e.Hash
	}

	paths := make([]string, 0, len(head)+len(staged))
	for p := range head {
		paths = append(paths, p)
	}
	for p := range staged {
		if _, ok := head[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var diffs []FileDiff
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		oldHash, inHead := head[p]
		newHash, inIndex := staged[p]
		if inHead && inIndex && oldHash == newHash {
			continue
		}

		d := FileDiff{Path: p, Action: ChangeModified}
		switch {
		case !inHead:
			d.Action = ChangeAdded
		case !inIndex:
			d.Action = ChangeDeleted
		}

		var before, after string
		if inHead {
			if before, err = r.blobContents(oldHash); err != nil {
				return nil, err
			}
		}
		if inIndex {
			if after, err = r.blobContents(newHash); err != nil {
				return nil, err
			}
		}

		d.Patch = renderPatch(p, d.Action, before, after)
		diffs = append(diffs, d)
	}

	return diffs, nil
}

func (r *GitRepository) headTree() (map[string]plumbing.Hash, error) {
	files := make(map[string]plumbing.Hash)

	commit, err := r.headCommit()
	if err != nil || commit == nil {
		return files, err
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get HEAD tree: %w", err)
	}

	err = tree.Files().ForEach(func(f *object.File) error {
		files[f.Name] = f.Hash
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk HEAD tree: %w", err)
	}
	return files, nil
}

func (r *GitRepository) blobContents(hash plumbing.Hash) (string, error) {
	blob, err := r.repo.BlobObject(hash)
	if err != nil {
		return "", fmt.Errorf("get blob %s: %w", hash, err)
	}

	rd, err := blob.Reader()
	if err != nil {
		return "", fmt.Errorf("open blob %s: %w", hash, err)
	}
	defer rd.Close()

	data, err := io.ReadAll(rd)
	if err != nil {
		return "", fmt.Errorf("read blob %s: %w", hash, err)
	}
	return string(data), nil
}

func renderPatch(path string, action ChangeAction, before, after string) string {
	var buf strings.Builder

	oldName, newName := "a/"+path, "b/"+path
	switch action {
	case ChangeAdded:
		oldName = "/dev/null"
	case ChangeDeleted:
		newName = "/dev/null"
	}
	fmt.Fprintf(&buf, "--- %s\n+++ %s\n", oldName, newName)

	if isBinary(before) || isBinary(after) {
		buf.WriteString("Binary files differ\n")
		return buf.String()
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				buf.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}

	return buf.String()
}

func isBinary(s string) bool {
	const sniff = 8000
	b := []byte(s)
	if len(b) > sniff {
		b = b[:sniff]
	}
	return bytes.IndexByte(b, 0) >= 0
}
