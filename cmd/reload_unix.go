//go:build !windows

package cmd

import (
	"os"
	"os/signal"
	"syscall"
)

// notifyReload delivers SIGHUP on the returned channel.
func notifyReload() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP)
	return ch, func() { signal.Stop(ch) }
}
