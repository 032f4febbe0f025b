package verifycmder_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	verifycmder "github.com/neerajvashistha/cuml/cmd/pdist/verify"
)

var _ = Describe("NewVerifyCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := verifycmder.NewVerifyCmd()
		Expect(cmd.Use).To(Equal("verify"))
	})

	It("registers the engine and verify flags", func() {
		cmd := verifycmder.NewVerifyCmd()
		for _, name := range []string{"type", "shape", "short", "workers", "precision", "seed", "tolerance", "cutoff", "memory-limit"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
	})
})

var _ = Describe("Verify command execution", func() {
	var out, errOut bytes.Buffer

	execute := func(args ...string) error {
		out.Reset()
		errOut.Reset()
		cmd := verifycmder.NewVerifyCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	It("passes a small case for every type", func() {
		err := execute("--shape", "40,24,9", "--shape", "7,50,3")
		Expect(err).NotTo(HaveOccurred())

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(HaveLen(1 + 6*2))
		for _, l := range lines[1:] {
			Expect(l).To(HavePrefix("PASS"))
		}
		Expect(errOut.String()).To(ContainSubstring("all cases passed"))
	})

	It("runs selected types in double precision", func() {
		err := execute("--type", "EucExpandedCosine,eucunexpandedl1", "--shape", "33x17x5", "--precision", "64", "--tolerance", "1e-9")
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("EucExpandedCosine/33x17x5"))
		Expect(out.String()).To(ContainSubstring("EucUnexpandedL1/33x17x5"))
	})

	It("honors engine tuning flags", func() {
		err := execute("--type", "EucExpandedL2Sqrt", "--shape", "30,30,30",
			"--workers", "2", "--tile-rows", "8", "--tile-cols", "4", "--tile-depth", "3")
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("PASS"))
	})

	It("fails when the workspace budget is too small", func() {
		err := execute("--type", "EucExpandedL2", "--shape", "100,100,4", "--memory-limit", "16")
		Expect(err).To(MatchError(ContainSubstring("memory limit exceeded")))
	})

	It("rejects unknown distance types", func() {
		err := execute("--type", "hamming", "--shape", "4,4,4")
		Expect(err).To(MatchError(ContainSubstring("hamming")))
	})

	It("rejects malformed shapes", func() {
		err := execute("--shape", "4,4")
		Expect(err).To(HaveOccurred())
	})

	It("rejects an invalid precision", func() {
		err := execute("--shape", "4,4,4", "--precision", "16")
		Expect(err).To(MatchError(ContainSubstring("verify.precision")))
	})

	It("reads defaults from a config file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "pdist.toml")
		Expect(os.WriteFile(path, []byte("[verify]\nprecision = 64\n"), 0o600)).To(Succeed())

		cmd := verifycmder.NewVerifyCmd()
		cmd.Flags().String("config", "", "")
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{"--config", path, "--type", "EucUnexpandedL2", "--shape", "5,5,5"})
		out.Reset()
		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("PASS"))
	})
})
