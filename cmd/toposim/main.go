// Command toposim runs an interactive simulation of a classical network
// topology: pick a topology and a node count, watch a round of test messages
// travel between the nodes, then stop the network.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logs "github.com/danmuck/smplog"
	"github.com/tebeka/atexit"

	"github.com/nikitakosatka/toposim/cmd/internal/logcfg"
)

func main() {
	logs.Configure(logcfg.Load())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	atexit.Register(stop)

	if err := newRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
