package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/phpns/internal/testutil"
	"github.com/leapstack-labs/phpns/pkg/core"
)

func TestLoadFromDir_NoConfig(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFromDir(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, dir string, cfg *ProjectConfig)
	}{
		{
			name:    "unset keys keep defaults",
			file:    "phpns.yaml",
			content: "include_autoload_dev: false\n",
			check: func(t *testing.T, _ string, cfg *ProjectConfig) {
				assert.Equal(t, core.DefaultSettings(), cfg.Settings)
				assert.Empty(t, cfg.Roots)
			},
		},
		{
			name: "all settings",
			file: "phpns.yaml",
			content: `namespace_style: same-line
include_class_definition: false
include_autoload_dev: true
stale_after: 2500ms
`,
			check: func(t *testing.T, _ string, cfg *ProjectConfig) {
				assert.Equal(t, core.StyleSameLine, cfg.NamespaceStyle)
				assert.False(t, cfg.IncludeClassDefinition)
				assert.True(t, cfg.IncludeAutoloadDev)
				assert.Equal(t, 2500*time.Millisecond, cfg.StaleAfter)
			},
		},
		{
			name:    "yml extension",
			file:    "phpns.yml",
			content: "namespace_style: next-line\n",
			check: func(t *testing.T, _ string, cfg *ProjectConfig) {
				assert.Equal(t, core.StyleNextLine, cfg.NamespaceStyle)
			},
		},
		{
			name:    "style alias",
			file:    "phpns.yaml",
			content: "namespace_style: PSR2\n",
			check: func(t *testing.T, _ string, cfg *ProjectConfig) {
				assert.Equal(t, core.StylePSR2, cfg.NamespaceStyle)
			},
		},
		{
			name: "relative roots resolve against the file",
			file: "phpns.yaml",
			content: `roots:
  - packages/billing
  - /srv/shared
`,
			check: func(t *testing.T, dir string, cfg *ProjectConfig) {
				assert.Equal(t, []string{filepath.Join(dir, "packages", "billing"), "/srv/shared"}, cfg.Roots)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteFile(t, dir, tt.file, tt.content)

			cfg, err := LoadFromDir(dir)
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.check(t, dir, cfg)
		})
	}
}

func TestLoadFromDir_PrefersYAML(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "phpns.yaml", "namespace_style: same-line\n")
	testutil.WriteFile(t, dir, "phpns.yml", "namespace_style: next-line\n")

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, core.StyleSameLine, cfg.NamespaceStyle)
}

func TestLoadFromDir_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{"malformed yaml", "namespace_style: [oops\n", "error reading config file"},
		{"unknown style", "namespace_style: allman\n", "unable to decode"},
		{"bad duration", "stale_after: soon\n", "unable to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteFile(t, dir, "phpns.yaml", tt.content)

			_, err := LoadFromDir(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "", ResolvePath("", "/base"))
	assert.Equal(t, "/abs", ResolvePath("/abs", "/base"))
	assert.Equal(t, filepath.Join("/base", "rel"), ResolvePath("rel", "/base"))
}
