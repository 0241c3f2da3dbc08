package pipeline

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Generator renders a pipeline definition document from run options. It exists
// as an interface so the trigger flow can be exercised with a substituted
// implementation.
type Generator interface {
	GenerateYaml(opts Options) (string, error)
}

// NewGenerator returns the default YAML-backed generator.
func NewGenerator() Generator {
	return yamlGenerator{}
}

type yamlGenerator struct{}

// definition mirrors the Codefresh pipeline schema for the subset of steps the
// trigger emits. Field order here determines document order.
type definition struct {
	Version string `yaml:"version"`
	Steps   steps  `yaml:"steps"`
}

type steps struct {
	Clone  cloneStep  `yaml:"main_clone"`
	Build  buildStep  `yaml:"build"`
	Deploy deployStep `yaml:"deploy"`
}

type cloneStep struct {
	Title    string `yaml:"title"`
	Type     string `yaml:"type"`
	Repo     string `yaml:"repo"`
	Revision string `yaml:"revision"`
}

type buildStep struct {
	Title     string `yaml:"title"`
	Type      string `yaml:"type"`
	ImageName string `yaml:"image_name"`
	Tag       string `yaml:"tag"`
}

type deployStep struct {
	Title       string            `yaml:"title"`
	Image       string            `yaml:"image"`
	Commands    []string          `yaml:"commands"`
	Environment map[string]string `yaml:"environment,omitempty"`
}

// GenerateYaml produces the serialized pipeline definition for the given
// options. The output is deterministic for a fixed input.
func (yamlGenerator) GenerateYaml(opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", fmt.Errorf("validate pipeline options: %w", err)
	}

	repo := opts.fullRepoName()
	image := fmt.Sprintf("%s:%s", repo, opts.ImageTag)

	def := definition{
		Version: "1.0",
		Steps: steps{
			Clone: cloneStep{
				Title:    "Cloning repository",
				Type:     "git-clone",
				Repo:     repo,
				Revision: opts.Branch,
			},
			Build: buildStep{
				Title:     "Building image",
				Type:      "build",
				ImageName: repo,
				Tag:       opts.ImageTag,
			},
			Deploy: deployStep{
				Title:       "Deploying",
				Image:       image,
				Commands:    []string{"./deploy.sh"},
				Environment: opts.Variables,
			},
		},
	}

	out, err := yaml.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("marshal pipeline definition: %w", err)
	}

	return string(out), nil
}
