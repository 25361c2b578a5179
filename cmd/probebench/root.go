package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "probebench",
	Short: "Drive the probing table through its benchmark workloads",
	Long: `probebench runs the three classic workloads against the fixed
capacity probing table: integer map operations, string keyword lookups
and nested updates through a chain of tables.

Each workload prints its checksum to stdout. Timing of the hot loop goes
to stderr with --verbose, so checksums stay clean for comparison.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Report hot loop wall clock time on stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// reportElapsed prints the measured hot loop time when --verbose is set
func reportElapsed(name string, d time.Duration) {
	if verbose {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, d)
	}
}
