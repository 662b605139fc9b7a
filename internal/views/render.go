package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header     string
	LeftPane   string
	RightPane  string
	StatusLine string
	Footer     string
	Alert      string
	Dark       bool
}

type theme struct {
	header lipgloss.Style
	status lipgloss.Style
	errTxt lipgloss.Style
	panel  lipgloss.Style
	alert  lipgloss.Style
	footer lipgloss.Style
}

var darkTheme = theme{
	header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	status: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	errTxt: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	alert:  lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 1).Foreground(lipgloss.Color("11")),
	footer: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

var lightTheme = theme{
	header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
	status: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	errTxt: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	alert:  lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 1).Foreground(lipgloss.Color("3")),
	footer: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
}

func RenderApp(data AppData) string {
	th := lightTheme
	if data.Dark {
		th = darkTheme
	}

	left := th.panel.Width(58).Render(data.LeftPane)
	right := th.panel.Width(42).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := th.status.Render(data.StatusLine)
	if strings.Contains(strings.ToLower(data.StatusLine), "error") {
		status = th.errTxt.Render(data.StatusLine)
	}

	lines := []string{
		th.header.Render(data.Header),
		row,
		status,
	}
	if data.Alert != "" {
		lines = append(lines, th.alert.Render(data.Alert))
	}
	if data.Footer != "" {
		lines = append(lines, th.footer.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string, dark bool) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := "light"
	if dark {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
