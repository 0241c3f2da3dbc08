package trigger

// Config captures the runtime controls the trigger needs.
type Config struct {
	// Pipeline is the Codefresh pipeline to run for each branch push.
	Pipeline string
	// ImageTag overrides the image tag for every run; when empty the short
	// head commit SHA is used.
	ImageTag string
	// SpecPath is where the runner writes the generated pipeline definition.
	SpecPath string
	// Variables are forwarded to every pipeline run.
	Variables map[string]string
}
