package main

import (
	"os"

	"github.com/bnema/focus-lounge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
