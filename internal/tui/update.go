package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/onescan/internal/camera"
	"github.com/existflow/onescan/internal/logger"
	"github.com/existflow/onescan/internal/model"
	"github.com/existflow/onescan/internal/scan"
	"github.com/existflow/onescan/internal/store"
)

// tickMsg drives periodic re-renders (badge expiry, clocks)
type tickMsg time.Time

// decodeMsg carries a decoded payload from the camera engine
type decodeMsg string

// checkinDoneMsg is the completion of an async batch check-in
type checkinDoneMsg struct {
	gen    int
	failed int
	err    error
}

// loginDoneMsg is the completion of an async batch login
type loginDoneMsg struct{ err error }

// probeDoneMsg is the completion of a liveness probe
type probeDoneMsg struct{}

// resultTimerMsg is the generation-tagged result auto-dismiss timer
type resultTimerMsg struct{ gen int }

// errClearMsg is the generation-tagged transient error clear timer
type errClearMsg struct{ gen int }

// probeCapMsg fires the delayed camera capability probe
type probeCapMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForDecode blocks on the decode channel; re-armed after every decode.
func (m Model) waitForDecode() tea.Cmd {
	return func() tea.Msg {
		return decodeMsg(<-m.decodes)
	}
}

func (m Model) checkinCmd(gen int, targets []model.Account, payload string) tea.Cmd {
	return func() tea.Msg {
		failed, err := m.rec.RunCheckin(context.Background(), targets, payload)
		return checkinDoneMsg{gen: gen, failed: failed, err: err}
	}
}

func (m Model) loginCmd() tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: m.rec.ForceLogin(context.Background())}
	}
}

func (m Model) probeCmd() tea.Cmd {
	return func() tea.Msg {
		m.rec.RunProbe(context.Background())
		return probeDoneMsg{}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForDecode())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// Badge visibility is computed from the store at render time; the
		// tick just forces the re-render.
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case decodeMsg:
		return m.handleDecode(string(msg))

	case checkinDoneMsg:
		state := m.wf.FinishCheckin(msg.gen, msg.failed, msg.err)
		if state == scan.ResultSuccess || state == scan.ResultPartial {
			gen := m.wf.Generation()
			return m, tea.Tick(scan.ResultDismiss, func(time.Time) tea.Msg {
				return resultTimerMsg{gen: gen}
			})
		}
		if msg.err != nil {
			gen := m.wf.ErrorGeneration()
			return m, tea.Tick(scan.ErrorClear, func(time.Time) tea.Msg {
				return errClearMsg{gen: gen}
			})
		}
		return m, nil

	case resultTimerMsg:
		m.wf.TimerFired(msg.gen)
		return m, nil

	case errClearMsg:
		m.wf.ClearError(msg.gen)
		return m, nil

	case probeCapMsg:
		m.cam.ProbeCapabilities()
		return m, nil

	case loginDoneMsg:
		if msg.err != nil {
			m.message = "login failed: backend unreachable"
		} else {
			m.message = "batch login finished"
		}
		return m, nil

	case probeDoneMsg:
		m.pull.Done()
		m.message = "status check finished"
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleDecode routes a decoded payload through the workflow.
func (m Model) handleDecode(payload string) (tea.Model, tea.Cmd) {
	targets, gen, err := m.wf.Decode(payload)
	switch {
	case err == nil:
		return m, tea.Batch(m.checkinCmd(gen, targets, payload), m.waitForDecode())
	case errors.Is(err, scan.ErrNoAccountsSelected):
		errGen := m.wf.ErrorGeneration()
		clear := tea.Tick(scan.ErrorClear, func(time.Time) tea.Msg {
			return errClearMsg{gen: errGen}
		})
		return m, tea.Batch(clear, m.waitForDecode())
	default:
		// Busy: a previous scan is still resolving, drop the decode.
		return m, m.waitForDecode()
	}
}

// handleMouse maps a press-drag-release on the home list to the
// pull-to-refresh gesture.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.tab != TabHome || m.mode != ModeNormal {
		return m, nil
	}

	atTop := m.cursor == 0
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pull.Start(float64(msg.Y), atTop)
		}
	case tea.MouseActionMotion:
		m.pull.Move(float64(msg.Y), atTop)
	case tea.MouseActionRelease:
		if m.pull.End() {
			m.message = "checking status"
			return m, m.probeCmd()
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeAddAccount:
		return m.updateAddModal(msg)
	case ModeEditURL:
		return m.updateSettings(msg)
	}

	if m.tab == TabScan {
		return m.updateScan(msg)
	}
	return m.updateHome(msg)
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Toggle):
		accounts := m.store.Accounts()
		if m.cursor < len(accounts) {
			m.store.ToggleSelected(accounts[m.cursor].ID)
		}

	case key.Matches(msg, keys.SelectAll):
		all := true
		for _, a := range m.store.Accounts() {
			if !a.Selected {
				all = false
				break
			}
		}
		m.store.SelectAll(!all)

	case key.Matches(msg, keys.Add):
		m.mode = ModeAddAccount
		m.addError = ""
		m.pwFocus = false
		m.idInput.SetValue("")
		m.pwInput.SetValue("")
		m.idInput.Focus()
		m.pwInput.Blur()
		return m, textinput.Blink

	case key.Matches(msg, keys.Edit):
		if m.mode == ModeEditList {
			m.mode = ModeNormal
		} else {
			m.mode = ModeEditList
		}

	case key.Matches(msg, keys.Delete):
		if m.mode == ModeEditList {
			accounts := m.store.Accounts()
			if m.cursor < len(accounts) {
				m.store.Remove(accounts[m.cursor].ID)
				m.clampCursor()
			}
		}

	case key.Matches(msg, keys.Login):
		m.message = "logging in"
		return m, m.loginCmd()

	case key.Matches(msg, keys.Refresh):
		if !m.pull.Refreshing() {
			m.message = "checking status"
			return m, m.probeCmd()
		}

	case key.Matches(msg, keys.Scan):
		return m.enterScan()

	case key.Matches(msg, keys.Settings):
		m.tab = TabSettings
		m.mode = ModeEditURL
		m.urlInput.SetValue(m.cfg.BaseURL)
		m.urlInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.message = ""
	}

	return m, nil
}

// enterScan starts the camera and switches to the scan view. A failed stream
// acquisition keeps the view usable but disables scanning with a persistent
// error until exit.
func (m Model) enterScan() (tea.Model, tea.Cmd) {
	m.tab = TabScan
	m.mode = ModeNormal
	m.scanError = ""
	m.scanInput.SetValue("")
	m.scanInput.Focus()

	if err := m.cam.Start(); err != nil {
		logger.Warn("scan view without camera", logger.F("error", err))
		m.scanError = "camera unavailable"
		return m, textinput.Blink
	}

	probe := tea.Tick(camera.ProbeDelay, func(time.Time) tea.Msg {
		return probeCapMsg{}
	})
	return m, tea.Batch(probe, textinput.Blink)
}

// exitScan is the guaranteed-cleanup path out of the scan view.
func (m Model) exitScan() (tea.Model, tea.Cmd) {
	m.wf.Cancel()
	m.cam.Stop()
	m.scanError = ""
	m.tab = TabHome
	return m, nil
}

func (m Model) updateScan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Quit):
		return m.exitScan()

	case key.Matches(msg, keys.Enter):
		if m.wf.State() == scan.ResultSuccess {
			if m.wf.Acknowledge() {
				return m.exitScan()
			}
			return m, nil
		}
		if m.scanError != "" {
			return m, nil
		}
		payload := m.scanInput.Value()
		if payload != "" {
			m.scanInput.SetValue("")
			m.engine.Inject(payload)
		}
		return m, nil

	case msg.String() == "+":
		m.cam.ApplyZoom(m.cam.Zoom().Level + 0.2)
		return m, nil

	case msg.String() == "-":
		m.cam.ApplyZoom(m.cam.Zoom().Level - 0.2)
		return m, nil
	}

	var cmd tea.Cmd
	m.scanInput, cmd = m.scanInput.Update(msg)
	return m, cmd
}

func (m Model) updateAddModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case msg.String() == "tab":
		m.pwFocus = !m.pwFocus
		if m.pwFocus {
			m.idInput.Blur()
			m.pwInput.Focus()
		} else {
			m.pwInput.Blur()
			m.idInput.Focus()
		}
		return m, textinput.Blink

	case key.Matches(msg, keys.Enter):
		if !m.pwFocus {
			m.pwFocus = true
			m.idInput.Blur()
			m.pwInput.Focus()
			return m, textinput.Blink
		}

		id := m.idInput.Value()
		if id == "" {
			m.addError = "account id is required"
			return m, nil
		}
		if err := m.store.Add(id, m.pwInput.Value()); err != nil {
			if errors.Is(err, store.ErrDuplicateID) {
				// Keep the modal open for correction.
				m.addError = "that id is already registered"
				return m, nil
			}
			m.addError = err.Error()
			return m, nil
		}
		m.mode = ModeNormal
		m.message = fmt.Sprintf("added %s", id)
		return m, nil
	}

	var cmd tea.Cmd
	if m.pwFocus {
		m.pwInput, cmd = m.pwInput.Update(msg)
	} else {
		m.idInput, cmd = m.idInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.tab = TabHome
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, keys.Enter):
		url := m.urlInput.Value()
		if url != "" {
			m.cfg.BaseURL = url
			m.client.SetBaseURL(url)
			if err := m.cfg.Save(); err != nil {
				logger.Warn("failed to save config", logger.F("error", err))
			}
			m.message = "backend updated"
		}
		m.tab = TabHome
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}
