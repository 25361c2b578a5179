package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goupdate/probemap/nested"
	"github.com/spf13/cobra"
)

var (
	nestedN int
)

func init() {
	cmd := newNestedCmd()
	cmd.Flags().IntVar(&nestedN, "n", 10000, "Number of increments of the terminal value")
	rootCmd.AddCommand(cmd)
}

func newNestedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nested",
		Short: "Increment a value three tables deep",
		Long: `The nested workload links three tables into a root -> "a" -> "b"
chain with a "c" terminal holding 0, then resolves the full path once per
iteration and increments the terminal in place. The checksum is n.

Example:
  probebench nested
  probebench nested --n 1000000 -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNested(os.Stdout, nestedN)
		},
	}
}

func runNested(w io.Writer, n int) error {
	arena := nested.NewArena[string]()

	root, err := arena.NewTable(8)
	if err != nil {
		return err
	}
	mid, err := arena.NewTable(8)
	if err != nil {
		return err
	}
	leaf, err := arena.NewTable(8)
	if err != nil {
		return err
	}
	if err := arena.Link(root, "a", mid); err != nil {
		return err
	}
	if err := arena.Link(mid, "b", leaf); err != nil {
		return err
	}
	if err := arena.PutPath(root, int64(0), "a", "b", "c"); err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < n; i++ {
		ref, err := arena.Resolve(root, "a", "b", "c")
		if err != nil {
			return err
		}
		*ref = (*ref).(int64) + 1
	}
	elapsed := time.Since(start)

	v, err := arena.GetPath(root, "a", "b", "c")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, v)
	reportElapsed("nested", elapsed)
	return nil
}
