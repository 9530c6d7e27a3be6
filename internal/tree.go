package internal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// stageResolved is the index stage of an entry outside a merge conflict;
// go-git's index.Merged names stage 1, the common ancestor.
const stageResolved index.Stage = 0

type encoder interface {
	Encode(plumbing.EncodedObject) error
}

func (r *GitRepository) storeObject(o encoder) (plumbing.Hash, error) {
	obj := r.repo.Storer.NewEncodedObject()
	if err := o.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode object: %w", err)
	}

	hash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store object: %w", err)
	}
	return hash, nil
}

type treeNode struct {
	dirs  map[string]*treeNode
	files []object.TreeEntry
}

func newTreeNode() *treeNode {
	return &treeNode{dirs: make(map[string]*treeNode)}
}

func (n *treeNode) insert(parts []string, entry object.TreeEntry) {
	if len(parts) == 1 {
		entry.Name = parts[0]
		n.files = append(n.files, entry)
		return
	}

	child, ok := n.dirs[parts[0]]
	if !ok {
		child = newTreeNode()
		n.dirs[parts[0]] = child
	}
	child.insert(parts[1:], entry)
}

// writeTree snapshots the index into tree objects and returns the root
// tree's hash. Entries at a conflict stage (1-3) make the index unwritable.
func (r *GitRepository) writeTree(idx *index.Index) (plumbing.Hash, error) {
	root := newTreeNode()
	for _, e := range idx.Entries {
		if e.Stage != stageResolved {
			return plumbing.ZeroHash, fmt.Errorf("unmerged entry %q", e.Name)
		}
		if e.IntentToAdd {
			continue
		}
		root.insert(strings.Split(e.Name, "/"), object.TreeEntry{Mode: e.Mode, Hash: e.Hash})
	}

	return r.buildTree(root)
}

func (r *GitRepository) buildTree(node *treeNode) (plumbing.Hash, error) {
	entries := append([]object.TreeEntry(nil), node.files...)

	for name, child := range node.dirs {
		hash, err := r.buildTree(child)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entries = append(entries, object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: hash})
	}

	sortTreeEntries(entries)
	return r.storeObject(&object.Tree{Entries: entries})
}

// sortTreeEntries orders entries the way git does: directories compare as
// if their name ended in "/".
func sortTreeEntries(entries []object.TreeEntry) {
	key := func(e object.TreeEntry) string {
		if e.Mode == filemode.Dir {
			return e.Name + "/"
		}
		return e.Name
	}
	sort.Slice(entries, func(i, j int) bool {
		return key(entries[i]) < key(entries[j])
	})
}
