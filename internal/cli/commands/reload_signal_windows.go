//go:build windows

package commands

import "os"

// Windows has no SIGHUP; rules reload only on restart.
var reloadSignals []os.Signal
