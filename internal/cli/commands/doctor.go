package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/phpns/internal/cli/config"
	"github.com/leapstack-labs/phpns/internal/cli/output"
	"github.com/leapstack-labs/phpns/internal/engine"
	"github.com/leapstack-labs/phpns/internal/loader"
	"github.com/leapstack-labs/phpns/pkg/core"
)

// Health check statuses.
const (
	statusPass  = "pass"
	statusWarn  = "warn"
	statusError = "error"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the project's namespace setup",
		Long: `Check every project root for problems that stop namespaces from being
generated.

The doctor command reports:
- Which config file and settings are in effect
- Whether each composer.json was found and parsed
- Autoload entries that were skipped
- Mapped directories that do not exist

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run the checks
  phpns doctor

  # Check a monorepo with two roots, as JSON
  phpns doctor --root api --root web -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	ConfigFile string        `json:"config_file,omitempty"`
	Settings   core.Settings `json:"settings"`
	Roots      []RootHealth  `json:"roots"`
	RuleCount  int           `json:"rule_count"`
	IssueCount int           `json:"issue_count"`
}

// RootHealth groups the checks of one project root.
type RootHealth struct {
	Root   string        `json:"root"`
	Rules  int           `json:"rules"`
	Checks []HealthCheck `json:"checks"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string   `json:"name"`
	Status  string   `json:"status"` // "pass", "warn", "error"
	Details []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	out := buildDoctorOutput(cmdCtx.Engine, cmdCtx.Report)
	out.ConfigFile = config.GetConfigFileUsed()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, out)
	default:
		renderDoctorText(r, out)
	}
	return nil
}

func buildDoctorOutput(eng *engine.Engine, report *loader.Report) *DoctorOutput {
	out := &DoctorOutput{
		Settings:  eng.Settings(),
		RuleCount: eng.Table().Len(),
		Roots:     make([]RootHealth, 0, len(report.Roots)),
	}

	for _, rr := range report.Roots {
		health := RootHealth{Root: rr.Root, Rules: rr.Rules}
		health.Checks = append(health.Checks,
			manifestCheck(rr),
			skippedCheck(rr),
			directoriesCheck(rr.Root, eng.Table().ForRoot(rr.Root)),
		)
		for _, c := range health.Checks {
			if c.Status != statusPass {
				out.IssueCount++
			}
		}
		out.Roots = append(out.Roots, health)
	}
	return out
}

func manifestCheck(rr loader.RootReport) HealthCheck {
	check := HealthCheck{Name: "composer.json", Status: statusPass}
	switch rr.Status {
	case loader.StatusOK:
		check.Details = []string{fmt.Sprintf("%d rules loaded", rr.Rules)}
	case loader.StatusNoAutoload:
		check.Status = statusWarn
		check.Details = []string{"no psr-0 or psr-4 autoload entries"}
	default:
		check.Status = statusError
		check.Details = []string{rr.Error}
	}
	return check
}

func skippedCheck(rr loader.RootReport) HealthCheck {
	if len(rr.Skipped) == 0 {
		return HealthCheck{Name: "autoload entries", Status: statusPass}
	}
	return HealthCheck{Name: "autoload entries", Status: statusWarn, Details: rr.Skipped}
}

func directoriesCheck(root string, rules []core.MappingRule) HealthCheck {
	check := HealthCheck{Name: "mapped directories", Status: statusPass}
	for _, rule := range rules {
		dir := filepath.Join(filepath.FromSlash(root), filepath.FromSlash(rule.Prefix))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			check.Status = statusWarn
			check.Details = append(check.Details,
				fmt.Sprintf("%s (%s) does not exist", displayPrefix(rule.Prefix), displayNamespace(rule.Namespace)))
		}
	}
	return check
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("phpns Project Check"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Settings"))
	if out.ConfigFile != "" {
		r.Printf("   Config: %s\n", out.ConfigFile)
	}
	r.Printf("   Style: %s | Class: %t | Dev rules: %t | Stale after: %s\n",
		out.Settings.NamespaceStyle, out.Settings.IncludeClassDefinition,
		out.Settings.IncludeAutoloadDev, out.Settings.StaleAfter)
	r.Println("")

	if len(out.Roots) == 0 {
		r.Warning("No project roots configured")
		return
	}

	for _, root := range out.Roots {
		r.Println(styles.Bold.Render("   " + root.Root))
		r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		for _, check := range root.Checks {
			icon := styles.Success.Render("✓")
			switch check.Status {
			case statusWarn:
				icon = styles.Warning.Render("!")
			case statusError:
				icon = styles.Error.Render("✗")
			}
			r.Println("   " + icon + " " + output.Title(check.Name))

			// Show first 3 details
			for i, detail := range check.Details {
				if i >= 3 {
					r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
					break
				}
				r.Println(styles.Muted.Render("       - " + detail))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	if out.IssueCount == 0 {
		r.Success(fmt.Sprintf("%d rules, no issues", out.RuleCount))
	} else {
		r.Warning(fmt.Sprintf("%d rules, %d issues", out.RuleCount, out.IssueCount))
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println("# phpns Project Check")
	r.Println("")

	r.Println("## Settings")
	r.Println("")
	if out.ConfigFile != "" {
		r.Println(output.FormatKeyValue("Config", out.ConfigFile))
	}
	r.Println(output.FormatKeyValue("Namespace style", string(out.Settings.NamespaceStyle)))
	r.Println(output.FormatKeyValue("Include class definition", fmt.Sprint(out.Settings.IncludeClassDefinition)))
	r.Println(output.FormatKeyValue("Include autoload-dev", fmt.Sprint(out.Settings.IncludeAutoloadDev)))
	r.Println(output.FormatKeyValue("Stale after", out.Settings.StaleAfter.String()))
	r.Println("")

	for _, root := range out.Roots {
		r.Println("## " + root.Root)
		r.Println("")
		for _, check := range root.Checks {
			r.Printf("- **[%s]** %s\n", strings.ToUpper(check.Status), output.Title(check.Name))
			for _, detail := range check.Details {
				r.Printf("  - %s\n", detail)
			}
		}
		r.Println("")
	}

	r.Println("## Summary")
	r.Println("")
	r.Printf("**%d rules, %d issues**\n", out.RuleCount, out.IssueCount)
}
