// Package typescmder provides the types command, which lists the distance catalog.
package typescmder

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/neerajvashistha/cuml/distance"
)

const typesLongDesc string = `List every supported distance type with its accumulation family,
reduction and whether it needs a workspace.

Expanded types keep squared row norms in a caller-provided workspace;
unexpanded types report a workspace size of zero.

Examples:
  pdist types`

const typesShortDesc string = "List supported distance types"

func NewTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: typesShortDesc,
		Long:  typesLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTypes(cmd.OutOrStdout())
		},
	}

	return cmd
}

func runTypes(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFAMILY\tREDUCTION\tSQRT\tWORKSPACE")
	for _, dt := range distance.Types() {
		tr := distance.MustLookup(dt)
		ws := "none"
		if tr.Family == distance.Expanded {
			ws = "row norms"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", dt, tr.Family, tr.Reduction, tr.Sqrt, ws)
	}
	return tw.Flush()
}
