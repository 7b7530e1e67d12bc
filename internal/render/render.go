// Package render draws risk projections for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"riskconsole/internal/risk"
)

var (
	colorMuted   = lipgloss.Color("#8c8c8c")
	colorWarning = lipgloss.Color("#faad14")

	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

var severityColors = map[string]lipgloss.Color{
	"danger":  lipgloss.Color("#ff4d4f"),
	"warning": lipgloss.Color("#fa8c16"),
	"primary": lipgloss.Color("#1890ff"),
	"success": lipgloss.Color("#52c41a"),
	"subdued": colorMuted,
}

var iconGlyphs = map[string]string{
	"alert":               "✖",
	"warning":             "⚠",
	"bell":                "◆",
	"eye":                 "●",
	"checkInCircleFilled": "✓",
}

const barWidth = 20

// Summary renders the one-line list projection.
func Summary(s risk.Summary) string {
	band := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Bold(true)
	parts := []string{
		band.Render(glyph(s.Icon) + " " + s.ScoreText),
		titleStyle.Render(s.Title),
		severity(s.Severity),
		band.Render(string(s.Band)),
		mutedStyle.Render(s.RecommendedAction),
	}
	if s.Incomplete {
		parts = append(parts, warningStyle.Render("(incomplete)"))
	}
	return strings.Join(parts, "  ")
}

// Breakdown renders the expanded projection as a bordered card.
func Breakdown(b risk.Breakdown) string {
	var sb strings.Builder
	sb.WriteString(Summary(b.Summary))
	sb.WriteString("\n\n")

	labelWidth := 0
	for _, f := range b.Factors {
		if w := lipgloss.Width(f.Label); w > labelWidth {
			labelWidth = w
		}
	}
	for _, f := range b.Factors {
		label := lipgloss.NewStyle().Width(labelWidth).Render(f.Label)
		fill := lipgloss.NewStyle().Foreground(lipgloss.Color(f.Color))
		fmt.Fprintf(&sb, "%s  %s  %s/%s  %s\n",
			label,
			fill.Render(bar(f.PercentOfCap)),
			f.Display,
			trimFloat(f.Cap),
			mutedStyle.Render(f.Caption),
		)
	}
	if b.Warning != "" {
		sb.WriteString("\n")
		sb.WriteString(warningStyle.Render("⚠ " + b.Warning))
	}

	return boxStyle.BorderForeground(lipgloss.Color(b.Color)).Render(strings.TrimRight(sb.String(), "\n"))
}

// View renders a decoded view, or its placeholder.
func View(v risk.View, detail bool) string {
	if !v.Available {
		return mutedStyle.Render(placeholderText(v))
	}
	if detail && v.Breakdown != nil {
		return Breakdown(*v.Breakdown)
	}
	if v.Summary != nil {
		return Summary(*v.Summary)
	}
	return mutedStyle.Render(risk.Unavailable)
}

// List renders summaries one per line.
func List(summaries []risk.Summary) string {
	if len(summaries) == 0 {
		return mutedStyle.Render("no open incidents")
	}
	lines := make([]string, len(summaries))
	for i, s := range summaries {
		lines[i] = Summary(s)
	}
	return strings.Join(lines, "\n")
}

// Banner renders a transport error banner.
func Banner(msg string) string {
	return boxStyle.BorderForeground(lipgloss.Color("#ff4d4f")).Render(msg)
}

func placeholderText(v risk.View) string {
	if v.Placeholder != "" {
		return v.Placeholder
	}
	return risk.Unavailable
}

func severity(b risk.SeverityBadge) string {
	label := b.Label
	if label == "" {
		label = "Unknown"
	}
	color, ok := severityColors[b.Color]
	if !ok {
		color = colorMuted
	}
	return lipgloss.NewStyle().Foreground(color).Render("[" + label + "]")
}

func glyph(icon string) string {
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	return "•"
}

func bar(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent/100*barWidth + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func trimFloat(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
