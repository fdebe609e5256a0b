package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/onescan/internal/api"
	"github.com/existflow/onescan/internal/camera"
	"github.com/existflow/onescan/internal/config"
	"github.com/existflow/onescan/internal/logger"
	"github.com/existflow/onescan/internal/reconcile"
	"github.com/existflow/onescan/internal/refresh"
	"github.com/existflow/onescan/internal/scan"
	"github.com/existflow/onescan/internal/store"
)

// Tab represents the active view
type Tab int

const (
	TabHome Tab = iota
	TabScan
	TabSettings
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddAccount
	ModeEditList
	ModeEditURL
)

// Model is the main TUI model
type Model struct {
	store  *store.Store
	rec    *reconcile.Reconciler
	client *api.Client
	cam    *camera.Controller
	engine *camera.ManualEngine
	wf     *scan.Workflow
	pull   *refresh.Pull
	cfg    *config.Config

	// UI state
	width  int
	height int
	tab    Tab
	mode   Mode
	cursor int

	// Add-account modal
	idInput  textinput.Model
	pwInput  textinput.Model
	pwFocus  bool
	addError string

	// Settings
	urlInput textinput.Model

	// Scan view: typed payloads are fed through the manual decode engine
	scanInput textinput.Model
	scanError string // persistent camera error, cleared on view exit

	// Decoded payloads cross from the engine callback into the update loop
	decodes chan string

	message string
}

// NewModel wires the TUI over the shared components.
func NewModel(s *store.Store, rec *reconcile.Reconciler, client *api.Client, engine *camera.ManualEngine, cfg *config.Config) Model {
	logger.Info("Initializing TUI model")

	idInput := textinput.New()
	idInput.Placeholder = "Account ID"
	idInput.CharLimit = 64
	idInput.Width = 32

	pwInput := textinput.New()
	pwInput.Placeholder = "Password"
	pwInput.EchoMode = textinput.EchoPassword
	pwInput.CharLimit = 128
	pwInput.Width = 32

	urlInput := textinput.New()
	urlInput.Placeholder = config.DefaultBaseURL
	urlInput.CharLimit = 256
	urlInput.Width = 48
	urlInput.SetValue(cfg.BaseURL)

	scanInput := textinput.New()
	scanInput.Placeholder = "Paste or type QR payload, Enter to scan"
	scanInput.CharLimit = 512
	scanInput.Width = 48

	cam := camera.NewController(engine)
	m := Model{
		store:     s,
		rec:       rec,
		client:    client,
		cam:       cam,
		engine:    engine,
		pull:      refresh.New(cfg.PullThreshold),
		cfg:       cfg,
		tab:       TabHome,
		mode:      ModeNormal,
		idInput:   idInput,
		pwInput:   pwInput,
		urlInput:  urlInput,
		scanInput: scanInput,
		decodes:   make(chan string, 1),
	}
	m.wf = scan.New(s, cam)

	// The engine delivers decodes on its own goroutine; hand them to the
	// update loop through the channel so all state stays single-threaded.
	cam.SetDecodeHandler(func(payload string) {
		select {
		case m.decodes <- payload:
		default:
		}
	})

	return m
}

func (m *Model) clampCursor() {
	n := m.store.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
