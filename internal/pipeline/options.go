package pipeline

import (
	"errors"
	"strings"
)

// Options carries everything needed to describe a single pipeline run. It is an
// immutable value assembled by the caller; neither generator mutates it.
type Options struct {
	// Pipeline is the Codefresh pipeline name (or id) to run.
	Pipeline string
	// Owner and Repo identify the repository being built.
	Owner string
	Repo  string
	// Branch is checked out by the clone step and passed to the CLI verbatim.
	Branch string
	// ImageTag tags the image produced by the build step.
	ImageTag string
	// SpecPath is where the generated pipeline definition document is written
	// by the caller; the trigger command references it. Defaults to
	// DefaultSpecPath when empty.
	SpecPath string
	// Variables holds additional run variables forwarded to the pipeline.
	Variables map[string]string
}

// DefaultSpecPath is used when Options.SpecPath is empty.
const DefaultSpecPath = "codefresh.yml"

var (
	errMissingPipeline = errors.New("pipeline name is required")
	errMissingBranch   = errors.New("branch is required")
	errMissingRepo     = errors.New("repository owner and name are required")
)

// Validate checks that the options can produce a runnable pipeline.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Pipeline) == "" {
		return errMissingPipeline
	}
	if strings.TrimSpace(o.Branch) == "" {
		return errMissingBranch
	}
	if strings.TrimSpace(o.Owner) == "" || strings.TrimSpace(o.Repo) == "" {
		return errMissingRepo
	}
	return nil
}

func (o Options) specPath() string {
	if path := strings.TrimSpace(o.SpecPath); path != "" {
		return path
	}
	return DefaultSpecPath
}

func (o Options) fullRepoName() string {
	return strings.TrimSpace(o.Owner) + "/" + strings.TrimSpace(o.Repo)
}
