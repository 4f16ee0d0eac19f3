package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/guardrails/guardrails/internal/domain"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

func severityTag(severity string) string {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

// RenderCheckReport formats the built-in rule run.
func RenderCheckReport(report *domain.CheckReport) string {
	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("guardrails") + "  " + dimStyle.Render("policy check") + "\n")
	b.WriteString("  " + separatorLine + "\n\n")

	if len(report.Violations) == 0 {
		fmt.Fprintf(&b, "  %s %s\n",
			passStyle.Render("✓"),
			dimStyle.Render(fmt.Sprintf("%d files checked, no violations", report.Files)))
	} else {
		fmt.Fprintf(&b, "  %s\n\n",
			titleStyle.Render(fmt.Sprintf("%d violations in %d files checked", len(report.Violations), report.Files)))
		for _, v := range report.Violations {
			fmt.Fprintf(&b, "    %s %s\n", severityTag(v.Severity),
				fileStyle.Render(fmt.Sprintf("%s:%d:%d", shortenPath(v.File), v.Line, v.Column)))
			fmt.Fprintf(&b, "          %s %s\n", dimStyle.Render(v.Message), faintStyle.Render("("+v.RuleID+")"))
		}
	}

	if len(report.RuleErrors) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Tooling errors") + "\n")
		for _, e := range report.RuleErrors {
			fmt.Fprintf(&b, "    %s %s: %s\n", errorTagStyle.Render("!"),
				fileStyle.Render(shortenPath(e.File)), dimStyle.Render(e.Message))
		}
	}

	b.WriteString("\n")
	return b.String()
}

// RenderPolicies formats the policy catalog.
func RenderPolicies(workspaces []domain.WorkspacePolicies) string {
	if len(workspaces) == 0 {
		return "  " + dimStyle.Render("No policies found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, ws := range workspaces {
		b.WriteString("  " + headerStyle.Render(ws.Workspace) + "\n")
		for _, layer := range ws.Layers {
			b.WriteString("    " + titleStyle.Render(layer.Layer) + "\n")
			for _, c := range layer.Checks {
				desc := c.Description
				if desc == "" {
					desc = faintStyle.Render("(no description)")
				} else {
					desc = dimStyle.Render(desc)
				}
				fmt.Fprintf(&b, "      %s  %s\n", c.ID, desc)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderAnalysis formats one analysis report.
func RenderAnalysis(report *domain.AnalysisReport) string {
	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("guardrails") + "  " + dimStyle.Render(string(report.Type)) + "\n")
	b.WriteString("  " + separatorLine + "\n\n")

	if report.Error != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", errorTagStyle.Render("failed"), dimStyle.Render(report.Error))
		return b.String()
	}

	if report.Success && report.IssueCount() == 0 {
		b.WriteString("  " + passStyle.Render("✓ clean") + "\n\n")
		return b.String()
	}

	status := failStyle.Render("✗ blocking issues")
	if report.Success {
		status = warnTagStyle.Render("△ non-blocking issues")
	}
	fmt.Fprintf(&b, "  %s  %s\n\n", status, dimStyle.Render(fmt.Sprintf("%d issues", report.IssueCount())))

	for _, i := range report.TypeIssues {
		fmt.Fprintf(&b, "    %s %s\n          %s\n", errorTagStyle.Render(i.Code),
			fileStyle.Render(fmt.Sprintf("%s:%d:%d", shortenPath(i.File), i.Line, i.Column)),
			dimStyle.Render(i.Message))
	}
	for _, i := range report.LintIssues {
		fmt.Fprintf(&b, "    %s %s\n          %s %s\n", severityTag(i.Severity),
			fileStyle.Render(fmt.Sprintf("%s:%d:%d", shortenPath(i.File), i.Line, i.Column)),
			dimStyle.Render(i.Message), faintStyle.Render("("+i.RuleID+")"))
	}
	for _, i := range report.FormatIssues {
		fmt.Fprintf(&b, "    %s %s\n", warnTagStyle.Render("fmt  "), fileStyle.Render(shortenPath(i.File)))
	}
	for _, i := range report.SecurityIssues {
		fmt.Fprintf(&b, "    %s %s %s\n          %s\n", securityTag(i.Severity),
			titleStyle.Render(i.ID),
			fileStyle.Render(fmt.Sprintf("%s:%d", shortenPath(i.File), i.Line)),
			dimStyle.Render(i.Description))
		if i.Resolution != "" {
			fmt.Fprintf(&b, "          %s\n", faintStyle.Render("fix: "+i.Resolution))
		}
	}

	b.WriteString("\n")
	return b.String()
}

func securityTag(severity string) string {
	switch severity {
	case domain.SecCritical, domain.SecHigh:
		return errorTagStyle.Render(padRight(strings.ToLower(severity), 8))
	case domain.SecMedium:
		return warnTagStyle.Render(padRight("medium", 8))
	default:
		return infoTagStyle.Render(padRight(strings.ToLower(severity), 8))
	}
}

// RenderUnused formats an unused-export report.
func RenderUnused(report *domain.UnusedReport) string {
	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("guardrails") + "  " + dimStyle.Render("unused exports · "+report.Workspace) + "\n")
	b.WriteString("  " + separatorLine + "\n\n")

	switch {
	case report.Error != "":
		fmt.Fprintf(&b, "  %s %s\n", errorTagStyle.Render("failed"), dimStyle.Render(report.Error))
	case len(report.Exports) == 0:
		b.WriteString("  " + passStyle.Render("✓ no unused exports") + "\n")
	default:
		fmt.Fprintf(&b, "  %s\n\n", titleStyle.Render(fmt.Sprintf("%d unused exports", len(report.Exports))))
		for _, e := range report.Exports {
			fmt.Fprintf(&b, "    %s  %s\n", e.Name,
				fileStyle.Render(fmt.Sprintf("%s:%d:%d", shortenPath(e.File), e.Line, e.Column)))
		}
	}

	b.WriteString("\n")
	return b.String()
}

// RenderReviews formats a batch of qualitative reviews with its summary.
func RenderReviews(results []domain.ReviewResult, summary domain.ReviewSummary) string {
	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("guardrails") + "  " + dimStyle.Render("qualitative review") + "\n")
	b.WriteString("  " + separatorLine + "\n\n")

	for _, r := range results {
		if r.Success {
			fmt.Fprintf(&b, "  %s %s", passStyle.Render("✓"), titleStyle.Render(shortenPath(r.FilePath)))
		} else {
			fmt.Fprintf(&b, "  %s %s", failStyle.Render("✗"), titleStyle.Render(shortenPath(r.FilePath)))
		}
		if len(r.AppliedPolicies) > 0 {
			b.WriteString("  " + faintStyle.Render("["+strings.Join(r.AppliedPolicies, ", ")+"]"))
		}
		b.WriteString("\n")
		if r.Success {
			for _, line := range strings.Split(strings.TrimSpace(r.ReviewText), "\n") {
				b.WriteString("    " + line + "\n")
			}
		} else {
			fmt.Fprintf(&b, "    %s %s\n", errorTagStyle.Render("error"), dimStyle.Render(r.Error))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf(
		"%d reviewed · %d ok · %d failed", summary.Total, summary.Successful, summary.Failed)))
	return b.String()
}

// RenderHistory formats recent run records.
func RenderHistory(records []domain.RunRecord) string {
	if len(records) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, r := range records {
		hash := r.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		status := passStyle.Render("pass")
		if !r.Success {
			status = failStyle.Render("fail")
		}
		ts := r.Timestamp
		if len(ts) >= 10 {
			ts = ts[:10]
		}
		fmt.Fprintf(&b, "  %s  %s  %s  %s  %s\n",
			dimStyle.Render(ts),
			faintStyle.Render(hash),
			padRight(string(r.Type), 14),
			status,
			dimStyle.Render(fmt.Sprintf("%d issues", r.Issues)),
		)
	}
	return b.String()
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 4 {
		return strings.Join(parts[len(parts)-4:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
