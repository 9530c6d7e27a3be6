package internal

import (
	"fmt"
	"os"
)

// Resolver picks the repository an operation runs against: the handle the
// caller already holds, or the one enclosing the working directory.
type Resolver struct {
	getwd func() (string, error)
}

func NewResolver() *Resolver {
	return &Resolver{getwd: os.Getwd}
}

// Resolve returns explicit unchanged when it is non-nil; otherwise it
// discovers the repository from the working directory.
func (r *Resolver) Resolve(explicit *GitRepository) (*GitRepository, error) {
	if explicit != nil {
		return explicit, nil
	}
	return r.Discover()
}

func (r *Resolver) Discover() (*GitRepository, error) {
	cwd, err := r.getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return OpenRepository(cwd)
}

// Open resolves an explicit path when given, falling back to discovery.
func (r *Resolver) Open(path string) (*GitRepository, error) {
	if path == "" {
		return r.Discover()
	}
	return OpenRepository(path)
}
