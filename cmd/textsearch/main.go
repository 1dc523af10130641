package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	apperrors "github.com/Adithya-Monish-Kumar-K/textfilesearch/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		// A second interrupt while blocked on stdin kills the process.
		<-ctx.Done()
		stop()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	os.Exit(apperrors.ExitCode(err))
}
