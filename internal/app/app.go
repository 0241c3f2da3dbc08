package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/codefresh-contrib/pipeline-trigger/internal/event"
	gh "github.com/codefresh-contrib/pipeline-trigger/internal/github"
	"github.com/codefresh-contrib/pipeline-trigger/internal/pipeline"
	"github.com/codefresh-contrib/pipeline-trigger/internal/token"
	"github.com/codefresh-contrib/pipeline-trigger/internal/trigger"
)

// pushProcessor evaluates push payloads into trigger results.
type pushProcessor interface {
	ProcessPush(ctx context.Context, payload event.PushPayload) (trigger.Result, error)
}

// Runner glues together the trigger and supporting services to execute one
// pipeline-trigger run.
type Runner struct {
	cfg  Config
	log  *slog.Logger
	trig pushProcessor
}

// NewRunner constructs a Runner with the supplied configuration, wiring the
// Redis-backed token cache, the GitHub App authenticator, and the REST client
// factory.
func NewRunner(cfg Config) (*Runner, error) {
	logger, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	auth, err := gh.NewAppAuthenticator(gh.AppConfig{
		AppID:         cfg.AppID,
		PrivateKeyPEM: cfg.PrivateKeyPEM,
		BaseURL:       cfg.GitHubBaseURL,
		UploadURL:     cfg.GitHubUploadURL,
	})
	if err != nil {
		return nil, fmt.Errorf("configure github app authenticator: %w", err)
	}

	store := token.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}))

	tokens := token.NewService(store, auth, logger)
	factory := gh.NewRESTFactory(cfg.GitHubBaseURL, cfg.GitHubUploadURL, logger)
	resolver := gh.NewResolver(tokens, factory, logger)

	trigCfg := trigger.Config{
		Pipeline: cfg.PipelineName,
		ImageTag: cfg.ImageTag,
		SpecPath: cfg.SpecPath,
	}

	return &Runner{
		cfg:  cfg,
		log:  logger,
		trig: trigger.New(trigCfg, resolver, pipeline.NewGenerator(), logger),
	}, nil
}

// NewRunnerWithDeps constructs a Runner with injected dependencies for testing.
func NewRunnerWithDeps(cfg Config, log *slog.Logger, trig pushProcessor) *Runner {
	return &Runner{cfg: cfg, log: log, trig: trig}
}

// Run executes the trigger flow for the push event referenced by the
// configuration.
func (r *Runner) Run(ctx context.Context) error {
	if r.log != nil {
		r.log.Info("starting pipeline trigger run", "pipeline", r.cfg.PipelineName, "dry_run", r.cfg.DryRun)
	}

	if r.cfg.EventPath == "" {
		return fmt.Errorf("GITHUB_EVENT_PATH is required")
	}

	payload, err := event.ParsePushEventFile(r.cfg.EventPath)
	if err != nil {
		return fmt.Errorf("parse push event: %w", err)
	}

	if payload.InstallationID == 0 && r.cfg.InstallationID > 0 {
		payload.InstallationID = r.cfg.InstallationID
	}

	result, err := r.trig.ProcessPush(ctx, payload)
	if err != nil {
		return fmt.Errorf("process push: %w", err)
	}

	if result.Skipped {
		if r.log != nil {
			r.log.Info("skipping pipeline trigger", "reason", result.SkippedReason)
		}
		if err := r.writeOutputs(result); err != nil && r.log != nil {
			r.log.Warn("failed to write outputs", "error", err)
		}
		return nil
	}

	if !r.cfg.DryRun {
		if err := os.WriteFile(result.SpecPath, []byte(result.Definition), 0o644); err != nil {
			return fmt.Errorf("write pipeline definition %s: %w", result.SpecPath, err)
		}
	}

	fmt.Println(result.Command)

	if err := r.writeOutputs(result); err != nil && r.log != nil {
		r.log.Warn("failed to write outputs", "error", err)
	}

	if r.log != nil {
		r.log.Info("pipeline trigger prepared", "branch", result.Branch, "sha", result.SHA, "spec_path", result.SpecPath)
	}

	return nil
}
