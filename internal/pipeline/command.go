package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// cliName is the Codefresh CLI binary the generated command invokes.
const cliName = "codefresh"

// GenerateCodefreshCmd builds the single-line CLI invocation that triggers the
// pipeline described by opts. The branch is always wrapped in double quotes,
// exactly once; no internal escaping is performed, so callers must supply
// shell-safe branch names. The generated definition document is referenced by
// path and never re-validated here.
func GenerateCodefreshCmd(opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", fmt.Errorf("validate pipeline options: %w", err)
	}

	var b strings.Builder
	b.WriteString(cliName)
	b.WriteString(" run ")
	b.WriteString(opts.Pipeline)
	b.WriteString(` -b "` + opts.Branch + `"`)
	b.WriteString(" --yaml ")
	b.WriteString(opts.specPath())
	b.WriteString(fmt.Sprintf(" -v REPO_OWNER=%s -v REPO_NAME=%s", opts.Owner, opts.Repo))

	if opts.ImageTag != "" {
		b.WriteString(fmt.Sprintf(" -v IMAGE_TAG=%s", opts.ImageTag))
	}

	for _, key := range sortedVariableKeys(opts.Variables) {
		b.WriteString(fmt.Sprintf(" -v %s=%s", key, opts.Variables[key]))
	}

	b.WriteString(" -d")

	return b.String(), nil
}

func sortedVariableKeys(vars map[string]string) []string {
	if len(vars) == 0 {
		return nil
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
