package event

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-github/v55/github"
)

const branchRefPrefix = "refs/heads/"

// PushPayload captures the subset of GitHub push event data used by the trigger.
type PushPayload struct {
	Repository     Repository
	Branch         string
	HeadSHA        string
	InstallationID int64
	Deleted        bool
}

// Repository identifies the owner/name of the repository where the event originated.
type Repository struct {
	Owner string
	Name  string
}

// IsBranchPush reports whether the event is a push to a branch head (as
// opposed to a tag or a branch deletion).
func (p PushPayload) IsBranchPush() bool {
	return p.Branch != "" && !p.Deleted
}

// ParsePushEvent decodes a GitHub push event payload from the provided reader.
func ParsePushEvent(r io.Reader) (PushPayload, error) {
	var raw github.PushEvent

	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return PushPayload{}, fmt.Errorf("decode push event: %w", err)
	}

	payload := PushPayload{
		Repository: Repository{
			Owner: strings.TrimSpace(raw.GetRepo().GetOwner().GetLogin()),
			Name:  strings.TrimSpace(raw.GetRepo().GetName()),
		},
		HeadSHA:        strings.TrimSpace(raw.GetAfter()),
		InstallationID: raw.GetInstallation().GetID(),
		Deleted:        raw.GetDeleted(),
	}

	if ref := strings.TrimSpace(raw.GetRef()); strings.HasPrefix(ref, branchRefPrefix) {
		payload.Branch = strings.TrimPrefix(ref, branchRefPrefix)
	}

	return payload, nil
}

// ParsePushEventFile reads the event JSON from disk.
func ParsePushEventFile(path string) (PushPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return PushPayload{}, fmt.Errorf("open event file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			// Log but don't override the return error
			fmt.Fprintf(os.Stderr, "failed to close event file: %v\n", closeErr)
		}
	}()

	payload, err := ParsePushEvent(f)
	if err != nil {
		return PushPayload{}, err
	}

	return payload, nil
}
