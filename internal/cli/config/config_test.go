package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/phpns/internal/testutil"
	"github.com/leapstack-labs/phpns/pkg/core"
)

// newFlags builds a flag set shaped like the root command's persistent flags.
func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.StringSlice("root", nil, "project roots")
	flags.String("namespace-style", "", "namespace style")
	flags.Bool("include-class-definition", true, "include class")
	flags.Bool("include-autoload-dev", false, "include autoload-dev")
	flags.Duration("stale-after", time.Second, "stale after")
	flags.BoolP("verbose", "v", false, "verbose")
	flags.StringP("output", "o", "", "output format")
	return flags
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	return testutil.WriteFile(t, dir, "phpns.yaml", content)
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "verbose: false\n")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, core.DefaultSettings(), cfg.Settings)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, filepath.Dir(cfgPath), cfg.ProjectRoot)
	assert.Equal(t, []string{cfg.ProjectRoot}, cfg.EffectiveRoots())
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `namespace_style: next-line
include_class_definition: false
include_autoload_dev: true
stale_after: 3s
roots:
  - .
  - packages/billing
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	dir := filepath.Dir(cfgPath)
	assert.Equal(t, core.StyleNextLine, cfg.NamespaceStyle)
	assert.False(t, cfg.IncludeClassDefinition)
	assert.True(t, cfg.IncludeAutoloadDev)
	assert.Equal(t, 3*time.Second, cfg.StaleAfter)
	assert.Equal(t, []string{dir, filepath.Join(dir, "packages", "billing")}, cfg.EffectiveRoots())
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{"unknown style", "namespace_style: allman\n", "unable to decode config"},
		{"negative stale_after", "stale_after: -1s\n", "stale_after must be positive"},
		{"unknown output", "output: html\n", "unknown output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "namespace_style: same-line\n")
	t.Setenv("PHPNS_NAMESPACE_STYLE", "next-line")

	flags := newFlags()
	require.NoError(t, flags.Set("namespace-style", "psr-2"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, core.StylePSR2, cfg.NamespaceStyle, "flag value should override config file and env var")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "namespace_style: same-line\nstale_after: 1s\n")
	t.Setenv("PHPNS_NAMESPACE_STYLE", "next-line")
	t.Setenv("PHPNS_STALE_AFTER", "250ms")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, core.StyleNextLine, cfg.NamespaceStyle, "env var should override config file")
	assert.Equal(t, 250*time.Millisecond, cfg.StaleAfter)
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "include_autoload_dev: false\n")
	t.Setenv("PHPNS_INCLUDE_AUTOLOAD_DEV", "true")

	cfg, err := LoadConfig(cfgPath, newFlags())
	require.NoError(t, err)

	assert.True(t, cfg.IncludeAutoloadDev, "env var should be used when flag is not set")
}

func TestLoadConfig_EnvRootsList(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "verbose: false\n")
	t.Setenv("PHPNS_ROOTS", "api,web")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	dir := filepath.Dir(cfgPath)
	assert.Equal(t, []string{filepath.Join(dir, "api"), filepath.Join(dir, "web")}, cfg.Roots)
}

func TestLoadConfig_RootFlagsRelativeToCWD(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "roots: [from-file]\n")
	cwd := t.TempDir()
	t.Chdir(cwd)

	flags := newFlags()
	require.NoError(t, flags.Set("root", "a"))
	require.NoError(t, flags.Set("root", "b"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(wd, "a"), filepath.Join(wd, "b")}, cfg.Roots)
}

func TestLoadConfig_InfersProjectRootFromManifest(t *testing.T) {
	ResetConfig()
	project := testutil.NewProject(t, testutil.LaravelManifest)
	sub := filepath.Join(project, "app", "Models")
	require.NoError(t, os.MkdirAll(sub, 0750))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(project)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_FindsConfigInProjectRoot(t *testing.T) {
	ResetConfig()
	project := t.TempDir()
	testutil.WriteFile(t, project, "phpns.yml", "namespace_style: same-line\n")
	t.Chdir(project)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, core.StyleSameLine, cfg.NamespaceStyle)
	assert.Equal(t, "phpns.yml", filepath.Base(GetConfigFileUsed()))
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("empty style", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.NamespaceStyle = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "namespace_style")
	})

	t.Run("zero stale_after", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.StaleAfter = 0
		require.Error(t, cfg.Validate())
	})
}

func TestGetLogger(t *testing.T) {
	logger := testutil.NewTestLogger(t)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))

	fallback := GetLogger(context.Background())
	require.NotNil(t, fallback)
	assert.False(t, fallback.Enabled(context.Background(), slog.LevelError))
}

func TestLoadConfig_StaleAfterFlag(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "stale_after: 3s\n")

	flags := newFlags()
	require.NoError(t, flags.Set("stale-after", "5s"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.StaleAfter)
}
