// Command deskctl drives a library desk session against a live library service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AntonStoeckl/librarydesk/core"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{out: os.Stdout, errOut: os.Stderr}
	err := newRootCommand(a).ExecuteContext(ctx)

	if closeErr := a.close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to flush telemetry: %v\n", closeErr)
	}
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", core.UserMessage(err))
		os.Exit(1)
	}
}
