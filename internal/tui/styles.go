package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Status colors
	StatusOK      = lipgloss.Color("#95E1A3") // Green - authenticated / success
	StatusPending = lipgloss.Color("#FFE66D") // Yellow - verifying
	StatusError   = lipgloss.Color("#FF6B6B") // Red - failed / unauthenticated
	StatusIdle    = lipgloss.Color("#6C757D") // Gray - pending

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	ListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	AccountItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	AccountSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	BadgeSuccessStyle = lipgloss.NewStyle().Foreground(StatusOK).Bold(true)
	BadgeFailureStyle = lipgloss.NewStyle().Foreground(StatusError).Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(StatusError).
				Bold(true).
				Padding(0, 1)

	OverlaySuccessStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(StatusOK).
				Padding(1, 4).
				Bold(true)

	OverlayPartialStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(StatusError).
				Padding(1, 4).
				Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)
