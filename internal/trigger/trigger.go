package trigger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codefresh-contrib/pipeline-trigger/internal/event"
	gh "github.com/codefresh-contrib/pipeline-trigger/internal/github"
	"github.com/codefresh-contrib/pipeline-trigger/internal/pipeline"
)

const shortSHALength = 7

// RefResolver resolves a branch name to its git reference for an installation.
type RefResolver interface {
	GetRefForBranchName(ctx context.Context, owner, repo, branch string, installationID int64) (gh.BranchRef, error)
}

// Trigger converts a push event into a pipeline run: it resolves the pushed
// branch through the authentication pipeline, then feeds the resolved data
// into the generation pipeline to produce the trigger command.
type Trigger struct {
	cfg  Config
	refs RefResolver
	gen  pipeline.Generator
	log  *slog.Logger
}

// Result captures the outcome of a single trigger run.
type Result struct {
	Skipped       bool
	SkippedReason string
	Branch        string
	SHA           string
	Definition    string
	SpecPath      string
	Command       string
}

// New returns a configured Trigger instance.
func New(cfg Config, refs RefResolver, gen pipeline.Generator, logger *slog.Logger) *Trigger {
	return &Trigger{cfg: cfg, refs: refs, gen: gen, log: logger}
}

// ProcessPush evaluates a push payload and produces the pipeline definition
// and trigger command for it. Non-branch pushes are reported as skipped with
// err == nil; every failure past that point propagates to the caller.
func (t *Trigger) ProcessPush(ctx context.Context, payload event.PushPayload) (Result, error) {
	if t.refs == nil {
		return Result{}, fmt.Errorf("ref resolver is required")
	}
	if t.gen == nil {
		return Result{}, fmt.Errorf("pipeline generator is required")
	}

	if !payload.IsBranchPush() {
		reason := "not a branch push"
		if payload.Deleted {
			reason = "branch was deleted"
		}
		if t.log != nil {
			t.log.Info("skipping pipeline trigger", "reason", reason, "owner", payload.Repository.Owner, "repo", payload.Repository.Name)
		}
		return Result{Skipped: true, SkippedReason: reason}, nil
	}

	if payload.Repository.Owner == "" || payload.Repository.Name == "" {
		return Result{}, fmt.Errorf("push payload missing repository owner/name")
	}

	if payload.InstallationID <= 0 {
		return Result{}, fmt.Errorf("push payload missing installation id")
	}

	ref, err := t.refs.GetRefForBranchName(ctx, payload.Repository.Owner, payload.Repository.Name, payload.Branch, payload.InstallationID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve ref for branch %s: %w", payload.Branch, err)
	}

	sha := ref.SHA()
	if sha == "" {
		sha = payload.HeadSHA
	}

	opts := pipeline.Options{
		Pipeline:  t.cfg.Pipeline,
		Owner:     payload.Repository.Owner,
		Repo:      payload.Repository.Name,
		Branch:    payload.Branch,
		ImageTag:  t.imageTag(sha),
		SpecPath:  t.cfg.SpecPath,
		Variables: t.cfg.Variables,
	}

	definition, err := t.gen.GenerateYaml(opts)
	if err != nil {
		return Result{}, fmt.Errorf("generate pipeline definition: %w", err)
	}

	command, err := pipeline.GenerateCodefreshCmd(opts)
	if err != nil {
		return Result{}, fmt.Errorf("generate trigger command: %w", err)
	}

	if t.log != nil {
		t.log.Info("prepared pipeline trigger", "pipeline", t.cfg.Pipeline, "branch", payload.Branch, "sha", sha, "image_tag", opts.ImageTag)
	}

	specPath := opts.SpecPath
	if specPath == "" {
		specPath = pipeline.DefaultSpecPath
	}

	return Result{
		Branch:     payload.Branch,
		SHA:        sha,
		Definition: definition,
		SpecPath:   specPath,
		Command:    command,
	}, nil
}

func (t *Trigger) imageTag(sha string) string {
	if t.cfg.ImageTag != "" {
		return t.cfg.ImageTag
	}
	if len(sha) > shortSHALength {
		return sha[:shortSHALength]
	}
	return sha
}
