package typescmder_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	typescmder "github.com/neerajvashistha/cuml/cmd/pdist/types"
	"github.com/neerajvashistha/cuml/distance"
)

var _ = Describe("NewTypesCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := typescmder.NewTypesCmd()
		Expect(cmd.Use).To(Equal("types"))
	})

	It("rejects any arguments", func() {
		cmd := typescmder.NewTypesCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})

	It("lists every distance type with its family", func() {
		var buf bytes.Buffer
		cmd := typescmder.NewTypesCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).To(Succeed())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(len(distance.Types()) + 1))
		Expect(lines[0]).To(HavePrefix("NAME"))
		for i, dt := range distance.Types() {
			Expect(lines[i+1]).To(HavePrefix(dt.String()))
		}
		Expect(buf.String()).To(ContainSubstring("EucExpandedCosine"))
		Expect(lines[1]).To(ContainSubstring("row norms"))
		Expect(lines[len(lines)-1]).To(ContainSubstring("abs-diff"))
		Expect(lines[len(lines)-1]).To(ContainSubstring("none"))
	})
})
