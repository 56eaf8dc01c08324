package watch

import (
	"fmt"
	"os"
)

// FileBuffer is an engine.Buffer over a file on disk.
type FileBuffer struct {
	path string
}

// NewFileBuffer wraps path.
func NewFileBuffer(path string) *FileBuffer {
	return &FileBuffer{path: path}
}

// ID returns the file path.
func (b *FileBuffer) ID() string { return b.path }

// Path returns the file path.
func (b *FileBuffer) Path() string { return b.path }

// IsEmpty reports whether the file has no content. A file that cannot be
// read is not empty, so nothing is appended to it.
func (b *FileBuffer) IsEmpty() bool {
	info, err := os.Stat(b.path)
	return err == nil && info.Size() == 0
}

// Append writes text at the end of the file.
func (b *FileBuffer) Append(text string) error {
	f, err := os.OpenFile(b.path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", b.path, err)
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", b.path, err)
	}
	return f.Close()
}
