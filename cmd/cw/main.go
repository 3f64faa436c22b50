// Package main provides the entry point for the cw CLI.
package main

import (
	"os"

	"github.com/vidyasagarr7/cw/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
