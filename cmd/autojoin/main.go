// Package main provides the autojoin command: it joins a Jitsi meeting in a
// headless Chromium under a configured display name and keeps the session
// alive until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(defaultDependencies()).ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errAttemptFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
