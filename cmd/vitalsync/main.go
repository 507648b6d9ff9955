// Vitalsync - Samsung Health sync and analytics
//
// Fetches Health Connect export archives from Google Drive, merges them
// into a local SQLite store, and reports on sleep, steps, heart rate,
// blood oxygen, and workouts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/vitalsync/internal/cli"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
