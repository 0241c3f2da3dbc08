package gh

import (
	"context"
	"errors"
	"log/slog"

	github "github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"
)

// Client bundles the capabilities of one authenticated GitHub session: issuing
// API requests, inspecting auth state, structured logging, and registering
// request lifecycle hooks. All four fields are non-nil on a successfully
// constructed client. The bundle is built once per orchestration call and not
// persisted.
type Client struct {
	Rest  *github.Client
	Auth  oauth2.TokenSource
	Log   *slog.Logger
	Hooks *HookRegistry
}

// Factory builds authenticated clients from installation tokens. Construction
// must not perform network I/O.
type Factory interface {
	New(ctx context.Context, token string) (*Client, error)
}

// AppTokenSource yields installation access tokens for building clients.
// *token.Service satisfies it.
type AppTokenSource interface {
	GetAppToken(ctx context.Context, installationID int64) (string, error)
}

// BranchRef carries the provider payload for a resolved branch reference.
type BranchRef struct {
	Data *github.Reference
}

// SHA returns the commit the reference points at, or "" when unresolved.
func (r BranchRef) SHA() string {
	return r.Data.GetObject().GetSHA()
}

// ErrRefNotFound indicates the requested branch reference does not exist.
var ErrRefNotFound = errors.New("github: ref not found")

// retryableError marks an error that may succeed if the operation is retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	if e == nil || e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// IsRetryable reports whether the supplied error resulted from a retryable GitHub
// API failure (for example, a transient network problem or rate-limited request).
// Retry handling itself lives behind the hook surface, not in this package.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var target *retryableError
	return errors.As(err, &target)
}
