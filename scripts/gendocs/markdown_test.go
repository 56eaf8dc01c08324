package main

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestMarkdownTable(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"Key", "Value"}, [][]string{{"a|b", "1"}})
	assert.Equal(t, "| Key | Value |\n|---|---|\n| a\\|b | 1 |\n\n", w.String())

	empty := NewMarkdownWriter()
	empty.Table([]string{"Key"}, nil)
	assert.Empty(t, empty.String())
}

func TestCleanExample(t *testing.T) {
	got := cleanExample("\n    phpns resolve src/A.php\n      phpns rules\n")
	assert.Equal(t, "phpns resolve src/A.php\n  phpns rules", got)
}

func TestConfigurationPage(t *testing.T) {
	page := string(configurationPage())

	assert.Contains(t, page, generatedHeader)
	assert.Contains(t, page, "| `namespace_style` | string | `psr-2` |")
	assert.Contains(t, page, "| `includeAutoloadDev` | `include_autoload_dev` |")
	assert.Contains(t, page, "| `roots` | []string | - |")
}

func TestFlagDefault(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringSlice("root", nil, "")
	fs.Bool("include-class-definition", true, "")
	fs.Duration("stale-after", time.Second, "")
	fs.String("output", "", "")

	tests := map[string]string{
		"root":                     "",
		"include-class-definition": "true",
		"stale-after":              "`1s`",
		"output":                   "",
	}
	for name, want := range tests {
		assert.Equal(t, want, flagDefault(fs.Lookup(name)), name)
	}
}
