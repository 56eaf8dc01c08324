//go:build !linux && !darwin && !windows

package engine

import (
	"io/fs"
	"time"
)

func creationTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
