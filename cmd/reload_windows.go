//go:build windows

package cmd

import "os"

// notifyReload never fires: Windows has no SIGHUP.
func notifyReload() (<-chan os.Signal, func()) {
	return make(chan os.Signal), func() {}
}
