package pipeline_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/codefresh-contrib/pipeline-trigger/internal/pipeline"
)

var _ = Describe("GenerateCodefreshCmd", func() {
	baseOptions := func() pipeline.Options {
		return pipeline.Options{
			Pipeline: "demo-pipeline",
			Owner:    "codefresh-contrib",
			Repo:     "demo",
			Branch:   "master",
			ImageTag: "latest",
		}
	}

	It("quotes the branch behind the -b flag", func() {
		cmd, err := pipeline.GenerateCodefreshCmd(baseOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).To(ContainSubstring(`-b "master"`))
	})

	It("substitutes arbitrary branch names verbatim", func() {
		opts := baseOptions()
		opts.Branch = "feature/foo-123"
		cmd, err := pipeline.GenerateCodefreshCmd(opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).To(ContainSubstring(`-b "feature/foo-123"`))
	})

	It("quotes the branch exactly once", func() {
		cmd, err := pipeline.GenerateCodefreshCmd(baseOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(cmd, `-b "master"`)).To(Equal(1))
		Expect(strings.Count(cmd, `"`)).To(Equal(2))
	})

	It("does not escape embedded quotes in branch names", func() {
		opts := baseOptions()
		opts.Branch = `odd"branch`
		cmd, err := pipeline.GenerateCodefreshCmd(opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).To(ContainSubstring(`-b "odd"branch"`))
	})

	It("includes the image tag", func() {
		cmd, err := pipeline.GenerateCodefreshCmd(baseOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).To(ContainSubstring("latest"))
	})

	It("references the generated definition document", func() {
		cmd, err := pipeline.GenerateCodefreshCmd(baseOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).To(ContainSubstring("--yaml " + pipeline.DefaultSpecPath))
	})

	It("honors an explicit spec path", func() {
		opts := baseOptions()
		opts.SpecPath = ".codefresh/run.yml"
		cmd, err := pipeline.GenerateCodefreshCmd(opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).To(ContainSubstring("--yaml .codefresh/run.yml"))
	})

	It("appends extra variables in a stable order", func() {
		opts := baseOptions()
		opts.Variables = map[string]string{"ZONE": "us-east-1", "ENV": "staging"}
		cmd, err := pipeline.GenerateCodefreshCmd(opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).To(ContainSubstring("-v ENV=staging -v ZONE=us-east-1"))
	})

	It("stays on a single line", func() {
		cmd, err := pipeline.GenerateCodefreshCmd(baseOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).NotTo(ContainSubstring("\n"))
	})

	It("rejects options without a pipeline name", func() {
		opts := baseOptions()
		opts.Pipeline = ""
		_, err := pipeline.GenerateCodefreshCmd(opts)
		Expect(err).To(HaveOccurred())
	})

	It("rejects options without a branch", func() {
		opts := baseOptions()
		opts.Branch = "  "
		_, err := pipeline.GenerateCodefreshCmd(opts)
		Expect(err).To(HaveOccurred())
	})
})
