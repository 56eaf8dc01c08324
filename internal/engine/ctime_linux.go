//go:build linux

package engine

import (
	"io/fs"
	"syscall"
	"time"
)

// creationTime uses the inode change time, which for a file that was
// just created is its creation time.
func creationTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	}
	return info.ModTime()
}
