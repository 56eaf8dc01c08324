//go:build !windows

package commands

import (
	"os"
	"syscall"
)

// reloadSignals trigger a rule reload in watch mode.
var reloadSignals = []os.Signal{syscall.SIGHUP}
