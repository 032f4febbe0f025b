// Package pdistcmder is the root of the pdist command tree.
package pdistcmder

import (
	"github.com/spf13/cobra"

	benchcmder "github.com/neerajvashistha/cuml/cmd/pdist/bench"
	typescmder "github.com/neerajvashistha/cuml/cmd/pdist/types"
	verifycmder "github.com/neerajvashistha/cuml/cmd/pdist/verify"
)

const pdistLongDesc string = `pdist computes and checks dense pairwise distance matrices.

Commands:
  pdist types     List the supported distance types
  pdist verify    Check the tiled engine against the naive reference
  pdist bench     Time the tiled engine against the naive reference

Configuration is read from config.toml in the working directory (or --config),
overridden by PDIST_* environment variables and then by flags.`

const pdistShortDesc string = "pdist - pairwise distance engine"

func NewPdistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pdist",
		Short:        pdistShortDesc,
		Long:         pdistLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to a TOML config file")

	// Add subcommands
	cmd.AddCommand(typescmder.NewTypesCmd())
	cmd.AddCommand(verifycmder.NewVerifyCmd())
	cmd.AddCommand(benchcmder.NewBenchCmd())

	return cmd
}
