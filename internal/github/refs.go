package gh

import (
	"context"
	"fmt"
	"log/slog"
)

// Resolver looks up branch references through the authentication pipeline:
// installation token, then an authenticated client, then a single ref read.
// Refs change frequently and are never cached here.
type Resolver struct {
	tokens  AppTokenSource
	factory Factory
	log     *slog.Logger
}

// NewResolver constructs a Resolver. The logger may be nil.
func NewResolver(tokens AppTokenSource, factory Factory, log *slog.Logger) *Resolver {
	return &Resolver{tokens: tokens, factory: factory, log: log}
}

// GetRefForBranchName resolves the named branch to its git reference in the
// given repository, authenticated as the installation. Lookup failures
// propagate to the caller; retries, if any, belong to the client hook surface.
func (r *Resolver) GetRefForBranchName(ctx context.Context, owner, repo, branch string, installationID int64) (BranchRef, error) {
	tok, err := r.tokens.GetAppToken(ctx, installationID)
	if err != nil {
		return BranchRef{}, fmt.Errorf("resolve installation token: %w", err)
	}

	client, err := r.factory.New(ctx, tok)
	if err != nil {
		return BranchRef{}, fmt.Errorf("initialize github client: %w", err)
	}

	ref, resp, err := client.Rest.Git.GetRef(ctx, owner, repo, "heads/"+branch)
	if err != nil {
		if isNotFound(resp, err) {
			return BranchRef{}, ErrRefNotFound
		}
		err = classifyGitHubError(err)
		return BranchRef{}, fmt.Errorf("get ref heads/%s: %w", branch, err)
	}

	if r.log != nil {
		r.log.Debug("resolved branch ref", "owner", owner, "repo", repo, "branch", branch, "sha", ref.GetObject().GetSHA())
	}

	return BranchRef{Data: ref}, nil
}
