package internal

import (
	"errors"
	"fmt"
)

var (
	ErrRepositoryNotFound = errors.New("repository not found")

	ErrIndexAccess = errors.New("cannot open index")
	ErrAddFailure  = errors.New("cannot stage path")
	ErrIndexWrite  = errors.New("cannot write index")

	ErrIdentityMissing  = errors.New("author identity missing")
	ErrSelectionAborted = errors.New("selection aborted")
	ErrCommitAborted    = errors.New("commit aborted")
	ErrTreeWrite        = errors.New("cannot write tree")
	ErrCommitCreation   = errors.New("cannot create commit")

	ErrDetachedOrUnbornHead = errors.New("HEAD is detached or unborn")
	ErrNoRemoteConfigured   = errors.New("no remote configured")
	ErrRemoteNotFound       = errors.New("remote not found")
	ErrPushRejected         = errors.New("push rejected")
)

// OpError ties an engine failure to the operation that hit it and the kind
// surfaced to callers. errors.Is matches both the kind and the cause.
type OpError struct {
	Op   string
	Kind error
	Path string
	Err  error
}

func (e *OpError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Path != "" {
		msg += fmt.Sprintf(" %q", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OpError) Is(target error) bool {
	return target == e.Kind
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(op string, kind, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Err: err}
}

func pathError(op string, kind error, path string, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Path: path, Err: err}
}

// IsRemoteResolution reports whether err means the push target could not be
// determined, before any network I/O took place.
func IsRemoteResolution(err error) bool {
	return errors.Is(err, ErrNoRemoteConfigured) || errors.Is(err, ErrRemoteNotFound)
}
