package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	previewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	previewBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
)

// RenderPreview frames code in a bordered box under title. Tabs are expanded
// so the border lines up.
func RenderPreview(title, code string) string {
	code = strings.ReplaceAll(code, "\t", "    ")
	code = strings.TrimRight(code, "\n")
	return previewTitleStyle.Render(title) + "\n" + previewBoxStyle.Render(code)
}

// RenderBanner renders the session banner.
func RenderBanner(text string) string {
	return bannerStyle.Render(text)
}
