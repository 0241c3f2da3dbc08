package event_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/codefresh-contrib/pipeline-trigger/internal/event"
)

const pushEventJSON = `{
	"ref": "refs/heads/release/v1.2",
	"after": "0a1b2c3d4e5f",
	"deleted": false,
	"repository": {
		"name": "demo",
		"owner": {"login": "codefresh-contrib"}
	},
	"installation": {"id": 42}
}`

var _ = Describe("ParsePushEvent", func() {
	It("extracts the branch, repository, and installation", func() {
		payload, err := event.ParsePushEvent(strings.NewReader(pushEventJSON))
		Expect(err).NotTo(HaveOccurred())
		Expect(payload.Repository.Owner).To(Equal("codefresh-contrib"))
		Expect(payload.Repository.Name).To(Equal("demo"))
		Expect(payload.Branch).To(Equal("release/v1.2"))
		Expect(payload.HeadSHA).To(Equal("0a1b2c3d4e5f"))
		Expect(payload.InstallationID).To(Equal(int64(42)))
		Expect(payload.IsBranchPush()).To(BeTrue())
	})

	It("leaves the branch empty for tag pushes", func() {
		tagEvent := strings.Replace(pushEventJSON, "refs/heads/release/v1.2", "refs/tags/v1.2.0", 1)
		payload, err := event.ParsePushEvent(strings.NewReader(tagEvent))
		Expect(err).NotTo(HaveOccurred())
		Expect(payload.Branch).To(BeEmpty())
		Expect(payload.IsBranchPush()).To(BeFalse())
	})

	It("reports branch deletions", func() {
		deletedEvent := strings.Replace(pushEventJSON, `"deleted": false`, `"deleted": true`, 1)
		payload, err := event.ParsePushEvent(strings.NewReader(deletedEvent))
		Expect(err).NotTo(HaveOccurred())
		Expect(payload.Deleted).To(BeTrue())
		Expect(payload.IsBranchPush()).To(BeFalse())
	})

	It("rejects malformed payloads", func() {
		_, err := event.ParsePushEvent(strings.NewReader("{not json"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ParsePushEventFile", func() {
	It("reads the payload from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "event.json")
		Expect(os.WriteFile(path, []byte(pushEventJSON), 0o600)).To(Succeed())

		payload, err := event.ParsePushEventFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(payload.Branch).To(Equal("release/v1.2"))
	})

	It("fails for a missing file", func() {
		_, err := event.ParsePushEventFile(filepath.Join(GinkgoT().TempDir(), "absent.json"))
		Expect(err).To(HaveOccurred())
	})
})
