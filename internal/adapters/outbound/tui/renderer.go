package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fluttervet/fluttervet/internal/domain"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3")
	dim     = lipgloss.Color("#6B7280")
	faint   = lipgloss.Color("#3F3F46")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
	info    = lipgloss.Color("#8B949E")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(danger).Bold(true)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderValidation renders a validation result for the terminal.
func RenderValidation(result *domain.ValidationResult) string {
	var b strings.Builder

	title := headerStyle.Render("fluttervet")
	subtitle := dimStyle.Render("Project Validation")

	verdict := passStyle.Render("PASS")
	if !result.Success {
		verdict = failStyle.Render("FAIL")
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + verdict))
	b.WriteString("\n\n")

	b.WriteString("  " + dimStyle.Render(result.Message) + "\n")
	b.WriteString("  " + separatorLine + "\n\n")

	if len(result.Issues) == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
		return b.String()
	}

	errs, warns, infos := result.CountBySeverity()
	b.WriteString("  " + titleStyle.Render("Issues") + "  ")
	if errs > 0 {
		b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d errors", errs)) + "  ")
	}
	if warns > 0 {
		b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d warnings", warns)) + "  ")
	}
	if infos > 0 {
		b.WriteString(infoTagStyle.Render(fmt.Sprintf("%d info", infos)))
	}
	b.WriteString("\n\n")

	for _, issue := range result.Issues {
		renderIssue(&b, issue)
	}
	return b.String()
}

func renderIssue(b *strings.Builder, issue domain.ValidationIssue) {
	tag := infoTagStyle.Render("info")
	switch issue.Severity {
	case domain.SeverityError:
		tag = errorTagStyle.Render("error")
	case domain.SeverityWarning:
		tag = warnTagStyle.Render("warn ")
	}

	location := issue.FilePath
	if issue.Line > 0 {
		location = fmt.Sprintf("%s:%d", issue.FilePath, issue.Line)
	}

	b.WriteString(fmt.Sprintf("  %s %s\n", tag, issue.Message))
	b.WriteString("       " + fileStyle.Render(location))
	if issue.Rule != "" {
		b.WriteString("  " + faintStyle.Render(issue.Rule))
	}
	b.WriteString("\n")
	if issue.Suggestion != "" {
		b.WriteString("       " + dimStyle.Render("hint: "+issue.Suggestion) + "\n")
	}
}
