package main

import (
	"os"

	"github.com/highvoltag3/BamVoo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
