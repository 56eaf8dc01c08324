// Package workspace tracks the project roots of a session and normalizes
// paths at the point they enter the system.
//
// Every path handled past this package uses "/" as its only separator and
// Unicode NFC, so prefix comparisons do not depend on the host platform or
// on how the filesystem reports names.
package workspace

import (
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize converts p to the canonical form used for prefix matching:
// "/" separators, NFC, cleaned, no trailing slash.
func Normalize(p string) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, `\`, "/")
	return path.Clean(norm.NFC.String(p))
}

// NormalizeRoot makes root absolute and normalizes it.
func NormalizeRoot(root string) string {
	if root == "" {
		return ""
	}
	if !filepath.IsAbs(root) && !isPortableAbs(root) {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	return Normalize(root)
}

// NormalizePrefix converts a manifest directory entry to a rule prefix:
// relative, cleaned, "/" separated and "/" terminated. Entries naming the
// root itself ("", ".", "./") become the empty prefix.
func NormalizePrefix(dir string) string {
	dir = strings.ReplaceAll(strings.TrimSpace(dir), `\`, "/")
	if dir == "" {
		return ""
	}
	dir = path.Clean(norm.NFC.String(dir))
	switch {
	case dir == ".":
		return ""
	case strings.HasSuffix(dir, "/"):
		return dir
	default:
		return dir + "/"
	}
}

// Rel returns file relative to root when file lies under root.
// Both arguments must already be normalized.
func Rel(root, file string) (string, bool) {
	if root == "" || file == "" {
		return "", false
	}
	prefix := root
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if !strings.HasPrefix(file, prefix) || len(file) == len(prefix) {
		return "", false
	}
	return file[len(prefix):], true
}

// isPortableAbs treats "/x" and "C:\x" as absolute on every platform,
// since paths may arrive from a client running elsewhere.
func isPortableAbs(p string) bool {
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && (p[2] == '/' || p[2] == '\\')
}
