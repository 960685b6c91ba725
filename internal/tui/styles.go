package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	primary lipgloss.Color
	accent  lipgloss.Color
	muted   lipgloss.Color
	success lipgloss.Color
	warning lipgloss.Color
	error   lipgloss.Color
	border  lipgloss.Color
	footer  lipgloss.Color
	help    lipgloss.Color
	onSel   lipgloss.Color
}

var (
	lightPalette = palette{
		primary: lipgloss.Color("25"),  // Dark blue
		accent:  lipgloss.Color("162"), // Magenta
		muted:   lipgloss.Color("244"), // Gray
		success: lipgloss.Color("28"),  // Green
		warning: lipgloss.Color("166"), // Orange
		error:   lipgloss.Color("160"), // Red
		border:  lipgloss.Color("61"),  // Slate purple
		footer:  lipgloss.Color("94"),  // Brown
		help:    lipgloss.Color("30"),  // Teal
		onSel:   lipgloss.Color("231"), // White
	}

	darkPalette = palette{
		primary: lipgloss.Color("39"),  // Blue
		accent:  lipgloss.Color("205"), // Pink
		muted:   lipgloss.Color("241"), // Gray
		success: lipgloss.Color("76"),  // Green
		warning: lipgloss.Color("214"), // Orange
		error:   lipgloss.Color("196"), // Red
		border:  lipgloss.Color("63"),  // Soft purple
		footer:  lipgloss.Color("226"), // Bright yellow
		help:    lipgloss.Color("117"), // Bright cyan
		onSel:   lipgloss.Color("0"),
	}
)

// styles is rebuilt whenever the theme flips
type styles struct {
	dark bool

	title    lipgloss.Style
	subtitle lipgloss.Style
	help     lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style

	// Messages
	info    lipgloss.Style
	success lipgloss.Style
	error   lipgloss.Style

	// Controls
	control  lipgloss.Style
	disabled lipgloss.Style

	// Layout
	border    lipgloss.Color
	appBorder lipgloss.Style
	section   lipgloss.Style
	modal     lipgloss.Style
	header    lipgloss.Style
	footer    lipgloss.Style
	total     lipgloss.Style

	table table.Styles
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.border).
		BorderBottom(true).
		Bold(true).
		Foreground(p.primary)
	ts.Selected = ts.Selected.
		Foreground(p.onSel).
		Background(p.primary).
		Bold(true)

	return styles{
		dark: dark,

		title:    lipgloss.NewStyle().Bold(true).Foreground(p.primary),
		subtitle: lipgloss.NewStyle().Foreground(p.muted),
		help:     lipgloss.NewStyle().Foreground(p.help),
		label:    lipgloss.NewStyle().Foreground(p.muted),
		focused:  lipgloss.NewStyle().Bold(true).Foreground(p.primary),

		info:    lipgloss.NewStyle().Foreground(p.accent),
		success: lipgloss.NewStyle().Foreground(p.success),
		error:   lipgloss.NewStyle().Foreground(p.error),

		control:  lipgloss.NewStyle().Bold(true).Foreground(p.primary),
		disabled: lipgloss.NewStyle().Foreground(p.muted).Faint(true),

		border: p.border,
		appBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(1, 2),
		section: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.accent).
			Padding(1, 2),
		header: lipgloss.NewStyle().Bold(true).Foreground(p.primary).Padding(0, 1),
		footer: lipgloss.NewStyle().Foreground(p.footer).Bold(true),
		total:  lipgloss.NewStyle().Bold(true).Foreground(p.warning),

		table: ts,
	}
}

// themeLabel names the theme the toggle switches to
func (s styles) themeLabel() string {
	if s.dark {
		return "☀️ Light"
	}
	return "🌙 Dark"
}
