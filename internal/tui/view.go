package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/onescan/internal/model"
	"github.com/existflow/onescan/internal/scan"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.tab {
	case TabScan:
		content = m.renderScan()
	case TabSettings:
		content = m.renderSettings()
	default:
		content = m.renderHome()
	}

	if m.mode == ModeAddAccount {
		modal := m.renderAddModal()
		content = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m Model) renderHome() string {
	accounts := m.store.Accounts()
	selected := 0
	for _, a := range accounts {
		if a.Selected {
			selected++
		}
	}

	var s string
	title := "OneScan"
	if m.mode == ModeEditList {
		title = "OneScan — edit"
	}
	s += HeaderStyle.Render(title) + "\n"
	s += HelpStyle.Render(fmt.Sprintf("%d accounts · %d selected", len(accounts), selected)) + "\n"

	// Pull-to-refresh affordance
	if m.pull.Refreshing() {
		s += HelpStyle.Render("  ⟳ checking status...") + "\n"
	} else if d := m.pull.Distance(); d > 0 {
		s += HelpStyle.Render("  ↓ "+strings.Repeat("·", int(d/10))) + "\n"
	}
	s += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(20, m.width-4))) + "\n"

	if len(accounts) == 0 {
		s += HelpStyle.Render("\n  No accounts yet. Press 'a' to add one.\n")
	}

	now := time.Now()
	for i, a := range accounts {
		s += m.renderAccountRow(i, a, now) + "\n"
	}

	return ListStyle.Height(m.height - 2).Render(s)
}

func (m Model) renderAccountRow(i int, a model.Account, now time.Time) string {
	cursor := "  "
	style := AccountItemStyle
	if i == m.cursor {
		cursor = "❯ "
		style = AccountSelectedStyle
	}

	check := "[ ]"
	if a.Selected {
		check = "[x]"
	}

	circle := sessionCircle(a)

	badge := "   "
	if a.BadgeVisible(now) {
		if a.LastCheckin == model.CheckinSuccess {
			badge = BadgeSuccessStyle.Render("[✓]")
		} else {
			badge = BadgeFailureStyle.Render("[✗]")
		}
	}

	action := ""
	if m.mode == ModeEditList && i == m.cursor {
		action = BadgeFailureStyle.Render("  d:delete")
	}

	msg := truncate(a.StatusMessage, 28)
	line := fmt.Sprintf("%s%s %s %-14s %s %s", cursor, check, circle, truncate(a.ID, 14), badge, HelpStyle.Render(msg))
	return style.Render(line) + action
}

// sessionCircle is the left-hand session indicator.
func sessionCircle(a model.Account) string {
	switch a.SessionState {
	case model.SessionVerifying:
		return lipgloss.NewStyle().Foreground(StatusPending).Render("◌")
	case model.SessionAuthenticated:
		return lipgloss.NewStyle().Foreground(StatusOK).Render("●")
	case model.SessionUnauthenticated:
		return lipgloss.NewStyle().Foreground(StatusError).Render("●")
	default:
		return lipgloss.NewStyle().Foreground(StatusIdle).Render("○")
	}
}

func (m Model) renderScan() string {
	var s string
	s += HeaderStyle.Render("Scan") + "\n\n"

	zoom := m.cam.Zoom()
	zoomKind := "sw"
	if zoom.Range != nil {
		zoomKind = "hw"
	}
	s += HelpStyle.Render(fmt.Sprintf("camera: %s · zoom %.1fx (%s)", m.cam.State(), zoom.Level, zoomKind)) + "\n"

	if marker := m.cam.FocusMarker(); marker != nil {
		s += HelpStyle.Render(fmt.Sprintf("focus @ %.0f,%.0f", marker.X, marker.Y)) + "\n"
	}
	s += "\n"

	switch m.wf.State() {
	case scan.Processing:
		s += ModalStyle.Render("⟳ connecting...") + "\n"
	case scan.ResultSuccess:
		s += OverlaySuccessStyle.Render("✓ All accounts checked in\n\nEnter: done and return home") + "\n"
	case scan.ResultPartial:
		s += OverlayPartialStyle.Render("⚠ Some accounts failed\n\nre-select the failed accounts on home") + "\n"
	default:
		if m.scanError != "" {
			s += ErrorBannerStyle.Render(m.scanError) + "\n\n"
		} else {
			s += m.scanInput.View() + "\n"
		}
	}

	if errText := m.wf.ErrorText(); errText != "" {
		s += "\n" + ErrorBannerStyle.Render(errText) + "\n"
	}

	s += "\n" + HelpStyle.Render("enter:scan  +/-:zoom  esc:back")
	return ListStyle.Height(m.height - 2).Render(s)
}

func (m Model) renderSettings() string {
	var s string
	s += HeaderStyle.Render("Settings") + "\n\n"
	s += "Backend endpoint\n"
	s += m.urlInput.View() + "\n\n"
	s += HelpStyle.Render("enter:save  esc:back")
	return ListStyle.Height(m.height - 2).Render(s)
}

func (m Model) renderAddModal() string {
	content := lipgloss.NewStyle().Bold(true).Render("Add Account") + "\n\n"
	content += m.idInput.View() + "\n"
	content += m.pwInput.View() + "\n\n"
	if m.addError != "" {
		content += ErrorBannerStyle.Render(m.addError) + "\n\n"
	}
	content += HelpStyle.Render("tab:switch  enter:save  esc:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderStatusBar() string {
	help := "space:select  a:add  e:edit  s:scan  L:login  r:status  ,:settings  q:quit"
	if m.tab == TabScan {
		help = "enter:scan payload  esc:back"
	}
	if m.message != "" {
		help = m.message
	}
	return StatusBarStyle.Width(m.width).Render(help)
}
