package benchcmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	benchcmder "github.com/neerajvashistha/cuml/cmd/pdist/bench"
)

var _ = Describe("NewBenchCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := benchcmder.NewBenchCmd()
		Expect(cmd.Use).To(Equal("bench"))
	})

	It("defaults to the expanded L2 type", func() {
		cmd := benchcmder.NewBenchCmd()
		Expect(cmd.Flags().Lookup("type").DefValue).To(Equal("EucExpandedL2"))
		Expect(cmd.Flags().Lookup("shape").DefValue).To(Equal("512,512,512"))
	})
})

var _ = Describe("Bench command execution", func() {
	var out, errOut bytes.Buffer

	execute := func(args ...string) error {
		out.Reset()
		errOut.Reset()
		cmd := benchcmder.NewBenchCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	DescribeTable("times a small problem",
		func(dt string) {
			err := execute("--type", dt, "--shape", "64,48,20", "--repeat", "2")
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(ContainSubstring(dt + "/64x48x20"))
			Expect(out.String()).To(ContainSubstring("SPEEDUP"))
		},
		Entry("expanded L2", "EucExpandedL2"),
		Entry("cosine", "EucExpandedCosine"),
		Entry("L1", "EucUnexpandedL1"),
	)

	It("rejects a non-positive repeat count", func() {
		err := execute("--shape", "8,8,8", "--repeat", "0")
		Expect(err).To(MatchError(ContainSubstring("bench.repeat")))
	})

	It("rejects unknown distance types", func() {
		err := execute("--type", "chebyshev", "--shape", "8,8,8")
		Expect(err).To(HaveOccurred())
	})
})
