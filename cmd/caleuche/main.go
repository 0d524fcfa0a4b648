// Package main provides the caleuche CLI for compiling code samples.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/brandor64/caleuche/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
