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
	keywordsN int
)

func init() {
	cmd := newKeywordsCmd()
	cmd.Flags().IntVar(&keywordsN, "n", 100000, "Number of lookups of the hot key")
	rootCmd.AddCommand(cmd)
}

func newKeywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keywords",
		Short: "Hammer one string key of a small record",
		Long: `The keywords workload builds a five field record in a string keyed
table and reads the "score" field n times, summing the results. The
checksum is 95*n.

Example:
  probebench keywords
  probebench keywords --n 1000000 -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeywords(os.Stdout, keywordsN)
		},
	}
}

func runKeywords(w io.Writer, n int) error {
	tab, err := probemap.New[string, int64](8)
	if err != nil {
		return err
	}
	record := []struct {
		key   string
		value int64
	}{
		{"name", 0},
		{"age", 30},
		{"city", 0},
		{"score", 95},
		{"level", 5},
	}
	for _, f := range record {
		if err := tab.Put(f.key, f.value); err != nil {
			return err
		}
	}

	start := time.Now()
	var sum int64
	for i := 0; i < n; i++ {
		v, _ := tab.Get("score")
		sum += v
	}
	elapsed := time.Since(start)

	fmt.Fprintln(w, sum)
	reportElapsed("keywords", elapsed)
	return nil
}
