package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goupdate/probemap"
	"github.com/spf13/cobra"
)

var (
	mapopsN        int
	mapopsCapacity int
)

func init() {
	cmd := newMapopsCmd()
	cmd.Flags().IntVar(&mapopsN, "n", 1000, "Number of keys to insert and read back")
	cmd.Flags().IntVar(&mapopsCapacity, "capacity", 2048, "Table slot count, a power of two")
	rootCmd.AddCommand(cmd)
}

func newMapopsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mapops",
		Short: "Fill an integer keyed table and sum it back",
		Long: `The mapops workload puts i -> i for every i below n, then reads all
n keys back and sums the values. The checksum is the sum 0+1+...+(n-1).

Example:
  probebench mapops
  probebench mapops --n 100000 --capacity 262144 -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMapOps(os.Stdout, mapopsN, mapopsCapacity)
		},
	}
}

func runMapOps(w io.Writer, n, capacity int) error {
	tab, err := probemap.New[int, int64](capacity)
	if err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < n; i++ {
		if err := tab.Put(i, int64(i)); err != nil {
			return err
		}
	}
	var sum int64
	for i := 0; i < n; i++ {
		v, _ := tab.Get(i)
		sum += v
	}
	elapsed := time.Since(start)

	fmt.Fprintln(w, sum)
	reportElapsed("mapops", elapsed)
	return nil
}
