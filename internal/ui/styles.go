package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorBase    = lipgloss.Color("#1B1F1C")
	ColorSurface = lipgloss.Color("#2B322D")
	ColorMuted   = lipgloss.Color("#777777")
	ColorText    = lipgloss.Color("#E5E5E5")
	ColorAccent  = lipgloss.Color("#4CAF50")
	ColorSoft    = lipgloss.Color("#81C784")
	ColorRed     = lipgloss.Color("#D32F2F")
	ColorYellow  = lipgloss.Color("#f9e2af")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted)

	SectionStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true).
			Padding(0, 1)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorBase).
				Background(ColorAccent)

	NormalRowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSoft).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorSurface).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(1, 2)

	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BreadcrumbActiveStyle = lipgloss.NewStyle().
				Foreground(ColorAccent)

	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			Padding(2, 4)

	PriceStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	SpecStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	PagerStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(1, 1, 0, 1)

	PagerDisabledStyle = lipgloss.NewStyle().
				Foreground(ColorSurface)
)
