package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/codefresh-contrib/pipeline-trigger/internal/pipeline"
)

var _ = Describe("Generator", func() {
	var gen pipeline.Generator

	BeforeEach(func() {
		gen = pipeline.NewGenerator()
	})

	opts := pipeline.Options{
		Pipeline: "demo-pipeline",
		Owner:    "codefresh-contrib",
		Repo:     "demo",
		Branch:   "release/v1.2",
		ImageTag: "1.2.0",
		Variables: map[string]string{
			"ENV": "staging",
		},
	}

	It("produces a parseable pipeline definition", func() {
		doc, err := gen.GenerateYaml(opts)
		Expect(err).NotTo(HaveOccurred())

		var parsed map[string]any
		Expect(yaml.Unmarshal([]byte(doc), &parsed)).To(Succeed())
		Expect(parsed).To(HaveKeyWithValue("version", "1.0"))
		Expect(parsed).To(HaveKey("steps"))
	})

	It("checks out the requested branch in the clone step", func() {
		doc, err := gen.GenerateYaml(opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc).To(ContainSubstring("revision: release/v1.2"))
		Expect(doc).To(ContainSubstring("repo: codefresh-contrib/demo"))
	})

	It("tags the built image with the requested tag", func() {
		doc, err := gen.GenerateYaml(opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc).To(ContainSubstring(`tag: 1.2.0`))
		Expect(doc).To(ContainSubstring("image_name: codefresh-contrib/demo"))
	})

	It("forwards extra variables to the deploy step environment", func() {
		doc, err := gen.GenerateYaml(opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc).To(ContainSubstring("ENV: staging"))
	})

	It("is deterministic for a fixed input", func() {
		first, err := gen.GenerateYaml(opts)
		Expect(err).NotTo(HaveOccurred())
		second, err := gen.GenerateYaml(opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("rejects options missing the repository", func() {
		broken := opts
		broken.Owner = ""
		_, err := gen.GenerateYaml(broken)
		Expect(err).To(HaveOccurred())
	})
})
