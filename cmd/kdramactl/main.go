// Package main provides the entry point for the kdramactl CLI.
package main

import (
	"fmt"
	"os"

	"kdrama_recommend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
