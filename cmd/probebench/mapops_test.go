package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunMapOps(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		capacity int
		want     string
		wantErr  bool
	}{
		{name: "default workload", n: 1000, capacity: 2048, want: "499500\n"},
		{name: "single key", n: 1, capacity: 2, want: "0\n"},
		{name: "table filled to capacity", n: 8, capacity: 8, want: "28\n"},
		{name: "capacity too small", n: 100, capacity: 64, wantErr: true},
		{name: "capacity not a power of two", n: 10, capacity: 100, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runMapOps(&buf, tt.n, tt.capacity)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestMapopsCommandWiring(t *testing.T) {
	rootCmd.SetArgs([]string{"mapops", "--n", "10", "--capacity", "16"})
	assert.NoError(t, rootCmd.Execute())
}
