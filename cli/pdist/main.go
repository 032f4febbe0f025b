package main

import (
	"os"

	pdistcmder "github.com/neerajvashistha/cuml/cmd/pdist"
)

func main() {
	cmd := pdistcmder.NewPdistCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
