package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"auractl/internal/provisioning"
)

var (
	sumColorGreen = lipgloss.Color("#22c55e")
	sumColorRed   = lipgloss.Color("#ef4444")
	sumColorBlue  = lipgloss.Color("#3b82f6")
	sumColorDim   = lipgloss.Color("#6b7280")
	sumColorWhite = lipgloss.Color("#f9fafb")
)

var (
	sumTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(sumColorWhite)

	sumSectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(sumColorBlue)

	sumDimStyle = lipgloss.NewStyle().
			Foreground(sumColorDim)

	sumGreenStyle = lipgloss.NewStyle().
			Foreground(sumColorGreen)

	sumRedStyle = lipgloss.NewStyle().
			Foreground(sumColorRed)
)

// renderSummary produces a lipgloss-styled run summary string.
func renderSummary(s *provisioning.Summary) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(sumTitleStyle.Render(fmt.Sprintf("  group %s", s.BaseName)))
	b.WriteString("\n")
	b.WriteString(sumDimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	for _, name := range s.Ready {
		b.WriteString(sumGreenStyle.Render(fmt.Sprintf("  ✓ %s ready", name)))
		b.WriteString("\n")
	}
	for _, name := range s.Deleted {
		b.WriteString(sumGreenStyle.Render(fmt.Sprintf("  ✓ %s deleted", name)))
		b.WriteString("\n")
	}
	for _, name := range s.Failed {
		line := fmt.Sprintf("  ✗ %s failed", name)
		if reason := s.Errors[name]; reason != "" {
			line += ": " + reason
		}
		b.WriteString(sumRedStyle.Render(line))
		b.WriteString("\n")
	}
	for _, name := range s.Skipped {
		b.WriteString(sumDimStyle.Render(fmt.Sprintf("  - %s skipped", name)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sumSectionStyle.Render("  " + s.String()))
	b.WriteString("\n")
	return b.String()
}

func printSummary(s *provisioning.Summary) {
	fmt.Print(renderSummary(s))
}
