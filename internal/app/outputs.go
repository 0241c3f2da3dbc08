package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codefresh-contrib/pipeline-trigger/internal/trigger"
)

// writeOutputs appends the run results to the configured output file in the
// key<<EOF heredoc format consumed by CI runners. A missing output path is
// not an error.
func (r *Runner) writeOutputs(result trigger.Result) error {
	path := r.cfg.OutputPath
	if path == "" {
		return nil
	}

	// Try to ensure the directory exists, but don't fail if we can't create it
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not create outputs directory: %v\n", mkErr)
		}
	}

	summary := struct {
		Skipped       bool   `json:"skipped"`
		SkippedReason string `json:"skipped_reason,omitempty"`
		Branch        string `json:"branch,omitempty"`
		SHA           string `json:"sha,omitempty"`
		SpecPath      string `json:"spec_path,omitempty"`
	}{
		Skipped:       result.Skipped,
		SkippedReason: result.SkippedReason,
		Branch:        result.Branch,
		SHA:           result.SHA,
		SpecPath:      result.SpecPath,
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run_summary: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open outputs file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			// Log but don't override the return error
			fmt.Fprintf(os.Stderr, "failed to close outputs file: %v\n", closeErr)
		}
	}()

	if err := writeMultilineOutput(file, "trigger_command", result.Command); err != nil {
		return err
	}

	if err := writeMultilineOutput(file, "run_summary", string(summaryJSON)); err != nil {
		return err
	}

	return nil
}

func writeMultilineOutput(file *os.File, key, value string) error {
	if _, err := fmt.Fprintf(file, "%s<<EOF\n%s\nEOF\n", key, value); err != nil {
		return fmt.Errorf("write output %s: %w", key, err)
	}
	return nil
}
