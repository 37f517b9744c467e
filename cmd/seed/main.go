// Command seed resets the tracker collections and fills them with a sample
// set of accounts, teams, activities, leaderboard entries and workouts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "seed error:", err)
		stop()
		os.Exit(1)
	}
}
