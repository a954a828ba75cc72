package main

import (
	"os"

	"github.com/zephyrtronium/vecfield/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
