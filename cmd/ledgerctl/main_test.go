package main

import (
	"context"
	"flag"
	"io"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	grpc_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/in/grpc"
)

func TestBenchCmd_RejectsNonPositiveCounts(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "zero concurrency", args: []string{"-c", "0"}},
		{name: "negative concurrency", args: []string{"-c", "-3"}},
		{name: "zero total", args: []string{"-n", "0"}},
		{name: "negative total", args: []string{"-n", "-1"}},
		{name: "extra argument", args: []string{"now"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &benchCmd{client: func() (*grpc_adapter.Client, error) {
				t.Fatal("client must not be created for invalid flags")
				return nil, nil
			}}
			fs := flag.NewFlagSet("bench", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			b.SetFlags(fs)
			require.NoError(t, fs.Parse(tt.args))

			assert.Equal(t, subcommands.ExitUsageError, b.Execute(context.Background(), fs))
		})
	}
}
