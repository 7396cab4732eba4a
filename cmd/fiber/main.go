// Command fiber runs the fiber demo page in a terminal, traces its render
// cycles and exports snapshots of its output tree.
package main

import (
	"os"

	"github.com/go-drift/fiber/cmd/fiber/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
