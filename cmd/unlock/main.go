// Command unlock solves unlock-puzzle machines read from a text file.
//
// Usage:
//
//	unlock solve input.txt
//	unlock toggle --workers 4 input.txt
//	unlock accumulate --log-level debug --metrics-addr :9100 input.txt
//	unlock solve --check input.txt
//
// Each input line describes one machine:
//
//	[.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
