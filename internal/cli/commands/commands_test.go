package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/phpns/internal/cli/config"
	clitestutil "github.com/leapstack-labs/phpns/internal/cli/testutil"
	intconfig "github.com/leapstack-labs/phpns/internal/config"
	"github.com/leapstack-labs/phpns/internal/testutil"
	"github.com/leapstack-labs/phpns/pkg/core"
)

type result struct {
	out    string
	errOut string
	err    error
}

// runCommand loads the configuration of root the way the root command
// does, lets tweak adjust it, and runs cmd with args.
func runCommand(t *testing.T, root string, tweak func(*config.Config), cmd *cobra.Command, args ...string) result {
	t.Helper()
	t.Chdir(root)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	cfg.OutputFormat = "markdown"
	if tweak != nil {
		tweak(cfg)
	}

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func jsonOutput(cfg *config.Config) { cfg.OutputFormat = "json" }

func TestCommandMetadata(t *testing.T) {
	cmds := []*cobra.Command{
		NewVersionCommand("test"),
		NewResolveCommand(),
		NewRulesCommand(),
		NewGenerateCommand(),
		NewDoctorCommand(),
		NewWatchCommand(),
		NewLSPCommand("test"),
		NewInitCommand(),
	}
	for _, cmd := range cmds {
		t.Run(cmd.Name(), func(t *testing.T) {
			assert.NotEmpty(t, cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, cmd.Long, "Long should not be empty")
		})
	}

	assert.NotNil(t, NewGenerateCommand().Flags().Lookup("write"))
	assert.NotNil(t, NewRulesCommand().Flags().Lookup("namespace"))
	assert.NotNil(t, NewInitCommand().Flags().Lookup("force"))
}

func TestVersionCommand(t *testing.T) {
	for _, version := range []string{"0.1.0", "dev"} {
		cmd := NewVersionCommand(version)
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "phpns v"+version)
	}
}

func TestResolveCommand(t *testing.T) {
	root := clitestutil.SetupTestProject(t)

	res := runCommand(t, root, nil, NewResolveCommand(), "src/Orders/Invoice.php")
	require.NoError(t, res.err)
	assert.Equal(t, "Acme\\Shop\\Orders\\Invoice\n", res.out)
}

func TestResolveCommand_JSONWithMiss(t *testing.T) {
	root := clitestutil.SetupTestProject(t)

	res := runCommand(t, root, jsonOutput, NewResolveCommand(), "src/Cart.php", "tests/CartTest.php")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "1 of 2 files did not resolve")

	var got []Resolution
	require.NoError(t, json.Unmarshal([]byte(res.out), &got))
	require.Len(t, got, 2)
	assert.True(t, got[0].Resolved)
	assert.Equal(t, "Acme\\Shop", got[0].Namespace)
	assert.Equal(t, "Cart", got[0].ClassName)
	assert.False(t, got[1].Resolved, "autoload-dev rules are off by default")
}

func TestResolveCommand_Table(t *testing.T) {
	root := clitestutil.SetupTestProject(t)

	res := runCommand(t, root, func(cfg *config.Config) { cfg.IncludeAutoloadDev = true },
		NewResolveCommand(), "src/Cart.php", "tests/CartTest.php")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Acme\\Shop\\Tests")
	assert.Contains(t, res.out, "CartTest")
	clitestutil.AssertNoANSI(t, res.out)
}

func TestRulesCommand(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*config.Config)
		args  []string
		want  []string
	}{
		{
			name: "default",
			want: []string{"Legacy_", "Acme\\Shop\\"},
		},
		// Longest prefix first: tests/ before lib/ and src/.
		{
			name:  "with autoload-dev",
			tweak: func(cfg *config.Config) { cfg.IncludeAutoloadDev = true },
			want:  []string{"Acme\\Shop\\Tests\\", "Legacy_", "Acme\\Shop\\"},
		},
		{
			name: "namespace filter",
			args: []string{"--namespace", `\Acme`},
			want: []string{"Acme\\Shop\\"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := clitestutil.SetupTestProject(t)
			tweak := func(cfg *config.Config) {
				jsonOutput(cfg)
				if tt.tweak != nil {
					tt.tweak(cfg)
				}
			}

			res := runCommand(t, root, tweak, NewRulesCommand(), tt.args...)
			require.NoError(t, res.err)

			var rules []core.MappingRule
			require.NoError(t, json.Unmarshal([]byte(res.out), &rules))
			namespaces := make([]string, 0, len(rules))
			for _, r := range rules {
				namespaces = append(namespaces, r.Namespace)
			}
			assert.Equal(t, tt.want, namespaces)
		})
	}
}

func TestRulesCommand_Markdown(t *testing.T) {
	root := clitestutil.SetupTestProject(t)

	res := runCommand(t, root, nil, NewRulesCommand())
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "| Directory")
	assert.Contains(t, res.out, "src/")
	assert.Contains(t, res.out, "psr-0")
	clitestutil.AssertValidMarkdown(t, res.out)
}

func TestRulesCommand_NoRules(t *testing.T) {
	root := testutil.NewProject(t, `{"name": "acme/empty"}`)

	res := runCommand(t, root, nil, NewRulesCommand())
	require.NoError(t, res.err)
	assert.Contains(t, res.errOut, "No namespace rules found")
}

func TestGenerateCommand_Prints(t *testing.T) {
	root := clitestutil.SetupTestProject(t)

	res := runCommand(t, root, nil, NewGenerateCommand(), "src/Orders/Invoice.php")
	require.NoError(t, res.err)
	assert.Equal(t, "<?php\n\nnamespace Acme\\Shop\\Orders;\n\nclass Invoice\n{\n}\n", res.out)
	assert.NoFileExists(t, filepath.Join(root, "src", "Orders", "Invoice.php"))
}

func TestGenerateCommand_Write(t *testing.T) {
	sameLine := func(cfg *config.Config) {
		cfg.NamespaceStyle = core.StyleSameLine
		cfg.IncludeClassDefinition = false
	}

	t.Run("creates missing file", func(t *testing.T) {
		root := clitestutil.SetupTestProject(t)
		res := runCommand(t, root, sameLine, NewGenerateCommand(), "--write", "src/Billing/Payment.php")
		require.NoError(t, res.err)

		data, err := os.ReadFile(filepath.Join(root, "src", "Billing", "Payment.php"))
		require.NoError(t, err)
		assert.Equal(t, "<?php namespace Acme\\Shop\\Billing;\n", string(data))
	})

	t.Run("fills empty file", func(t *testing.T) {
		root := clitestutil.SetupTestProject(t)
		path := testutil.WriteFile(t, root, "src/Orders/Invoice.php", "")

		res := runCommand(t, root, sameLine, NewGenerateCommand(), "-w", "src/Orders/Invoice.php")
		require.NoError(t, res.err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<?php namespace Acme\\Shop\\Orders;\n", string(data))
	})

	t.Run("refuses file with content", func(t *testing.T) {
		root := clitestutil.SetupTestProject(t)
		path := testutil.WriteFile(t, root, "src/Orders/Invoice.php", "<?php\n")

		res := runCommand(t, root, sameLine, NewGenerateCommand(), "--write", "src/Orders/Invoice.php")
		require.ErrorIs(t, res.err, ErrFileNotEmpty)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<?php\n", string(data))
	})
}

func TestGenerateCommand_Unmapped(t *testing.T) {
	root := clitestutil.SetupTestProject(t)

	res := runCommand(t, root, nil, NewGenerateCommand(), "bin/console.php")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "no autoload rule matches")
}

func TestDoctorCommand(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		issues   int
		statuses []string
	}{
		{
			name:     "healthy project",
			manifest: `{"autoload": {"psr-4": {"App\\": "src/"}}}`,
			statuses: []string{statusPass, statusPass, statusPass},
		},
		{
			name:     "missing directory",
			manifest: `{"autoload": {"psr-4": {"App\\": "src/", "Domain\\": "domain/"}}}`,
			issues:   1,
			statuses: []string{statusPass, statusPass, statusWarn},
		},
		{
			name:     "no autoload",
			manifest: `{"name": "acme/empty"}`,
			issues:   1,
			statuses: []string{statusWarn, statusPass, statusPass},
		},
		{
			name:     "malformed manifest",
			manifest: `{"autoload": `,
			issues:   1,
			statuses: []string{statusError, statusPass, statusPass},
		},
		{
			name:     "skipped entry",
			manifest: `{"autoload": {"psr-4": {"App\\": "src/", "Bad\\": 42}}}`,
			issues:   1,
			statuses: []string{statusPass, statusWarn, statusPass},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testutil.NewProject(t, tt.manifest)
			testutil.WriteFile(t, root, "src/.keep", "")

			res := runCommand(t, root, jsonOutput, NewDoctorCommand())
			require.NoError(t, res.err)

			var out DoctorOutput
			require.NoError(t, json.Unmarshal([]byte(res.out), &out))
			assert.Equal(t, tt.issues, out.IssueCount)
			require.Len(t, out.Roots, 1)

			statuses := make([]string, 0, len(out.Roots[0].Checks))
			for _, c := range out.Roots[0].Checks {
				statuses = append(statuses, c.Status)
			}
			assert.Equal(t, tt.statuses, statuses)
		})
	}
}

func TestDoctorCommand_Markdown(t *testing.T) {
	root := clitestutil.SetupTestProject(t)

	res := runCommand(t, root, nil, NewDoctorCommand())
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "# phpns Project Check")
	assert.Contains(t, res.out, "**[PASS]**")
	assert.NotContains(t, res.out, "**[WARN]**")
	assert.Contains(t, res.out, "**2 rules, 0 issues**")
	clitestutil.AssertValidMarkdown(t, res.out)
}

func TestRenderDoctorText(t *testing.T) {
	tr := clitestutil.NewTestRendererText()
	renderDoctorText(tr.Renderer, &DoctorOutput{
		Settings:  core.DefaultSettings(),
		RuleCount: 1,
		Roots: []RootHealth{{
			Root:  "/srv/app",
			Rules: 1,
			Checks: []HealthCheck{
				{Name: "mapped directories", Status: statusWarn, Details: []string{"a/", "b/", "c/", "d/"}},
			},
		}},
		IssueCount: 1,
	})

	assert.Contains(t, tr.Output(), "Mapped Directories")
	assert.Contains(t, tr.Output(), "... and 1 more")
	assert.Contains(t, tr.ErrorOutput(), "1 rules, 1 issues")
}

func TestInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		args     []string
		wantErr  bool
	}{
		{name: "empty directory"},
		{name: "existing config without force", existing: "phpns.yaml", wantErr: true},
		{name: "existing yml without force", existing: "phpns.yml", wantErr: true},
		{name: "existing config with force", existing: "phpns.yaml", args: []string{"--force"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := clitestutil.SetupTestProject(t)
			if tt.existing != "" {
				testutil.WriteFile(t, root, tt.existing, "namespace_style: psr-2\n")
			}

			tweak := func(cfg *config.Config) {
				cfg.NamespaceStyle = core.StyleNextLine
				cfg.IncludeAutoloadDev = true
			}
			res := runCommand(t, root, tweak, NewInitCommand(), tt.args...)
			if tt.wantErr {
				require.Error(t, res.err)
				assert.Contains(t, res.err.Error(), "already exists")
				return
			}
			require.NoError(t, res.err)

			written, err := intconfig.LoadFile(filepath.Join(root, "phpns.yaml"))
			require.NoError(t, err)
			assert.Equal(t, core.StyleNextLine, written.NamespaceStyle)
			assert.True(t, written.IncludeAutoloadDev)
			assert.True(t, written.IncludeClassDefinition)
			assert.Equal(t, core.DefaultStaleAfter, written.StaleAfter)
		})
	}
}

func TestInitCommand_NewDirectory(t *testing.T) {
	root := clitestutil.SetupTestProject(t)

	res := runCommand(t, root, nil, NewInitCommand(), "packages/billing")
	require.NoError(t, res.err)
	assert.FileExists(t, filepath.Join(root, "packages", "billing", "phpns.yaml"))
	assert.Contains(t, res.out, "composer.json")
}

func TestMarshalProjectConfig(t *testing.T) {
	data, err := marshalProjectConfig(core.Settings{NamespaceStyle: core.StyleSameLine})
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "# phpns configuration")
	assert.Contains(t, text, "namespace_style: same-line")
	assert.Contains(t, text, "stale_after: 1s")
	assert.NotContains(t, text, "roots")
}

func TestWatchCommand_StopsOnCancel(t *testing.T) {
	root := clitestutil.SetupTestProject(t)
	t.Chdir(root)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	cmd := NewWatchCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, runWatch(ctx, cmd))
	assert.Contains(t, out.String(), "Watching for new PHP files")
}
