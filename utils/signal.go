package utils

import (
	"context"
	"os/signal"
	"syscall"
)

// SignalContext returns a context that is cancelled on the first SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
