package pdistcmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	pdistcmder "github.com/neerajvashistha/cuml/cmd/pdist"
)

var _ = Describe("NewPdistCmd", func() {
	It("creates the root command", func() {
		cmd := pdistcmder.NewPdistCmd()
		Expect(cmd.Use).To(Equal("pdist"))
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config")).NotTo(BeNil())
	})

	It("registers the subcommands", func() {
		cmd := pdistcmder.NewPdistCmd()
		names := []string{}
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("types", "verify", "bench"))
	})

	It("runs a subcommand with debug logging", func() {
		var out, errOut bytes.Buffer
		cmd := pdistcmder.NewPdistCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{"--debug", "verify", "--type", "EucExpandedL2", "--shape", "12,12,12"})

		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("PASS"))
		Expect(errOut.String()).To(ContainSubstring("distance computation completed"))
	})

	It("fails on a missing config file", func() {
		cmd := pdistcmder.NewPdistCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--config", "/nonexistent/pdist.toml", "verify", "--shape", "4,4,4"})

		Expect(cmd.Execute()).To(MatchError(ContainSubstring("loading config")))
	})
})
