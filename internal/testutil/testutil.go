// Package testutil provides fixtures shared by package tests: a slog logger
// bound to the test and helpers that lay out PHP projects on disk.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Output shows up only for failing tests or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// WriteManifest writes composer.json with the given content under root,
// creating root if needed.
func WriteManifest(t testing.TB, root, content string) {
	t.Helper()
	WriteFile(t, root, "composer.json", content)
}

// WriteFile writes content to root/rel, creating parent directories.
// It returns the absolute path of the file.
func WriteFile(t testing.TB, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
	return path
}

// NewProject creates a temporary project root containing manifest.
// An empty manifest leaves composer.json out.
func NewProject(t testing.TB, manifest string) string {
	t.Helper()
	root := t.TempDir()
	if manifest != "" {
		WriteManifest(t, root, manifest)
	}
	return root
}

// LaravelManifest is a typical single-namespace psr-4 manifest.
const LaravelManifest = `{
    "name": "acme/app",
    "autoload": {
        "psr-4": {
            "App\\": "app/",
            "Database\\Factories\\": "database/factories/"
        }
    },
    "autoload-dev": {
        "psr-4": {
            "Tests\\": "tests/"
        }
    }
}`
