// Package scan is the controlling state machine for the scan lifecycle. It
// gates decodes, drives the camera controller, hands accepted payloads to the
// reconciler and times result display. Timers are keyed to a state generation
// so a late timer can never flip state that has since moved on.
package scan

import (
	"errors"
	"time"

	"github.com/existflow/onescan/internal/logger"
	"github.com/existflow/onescan/internal/model"
	"github.com/existflow/onescan/internal/store"
)

// State is the scan workflow state.
type State int

const (
	Idle State = iota
	Processing
	ResultSuccess
	ResultPartial
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Processing:
		return "processing"
	case ResultSuccess:
		return "result-success"
	case ResultPartial:
		return "result-partial"
	default:
		return "idle"
	}
}

const (
	// ResultDismiss is how long a terminal result screen shows before the
	// workflow auto-returns to idle.
	ResultDismiss = 3 * time.Second
	// ErrorClear is how long transient error text stays visible.
	ErrorClear = 2 * time.Second
)

// Workflow errors.
var (
	// ErrBusy rejects a decode while a previous scan is still resolving.
	ErrBusy = errors.New("scan already in progress")
	// ErrNoAccountsSelected rejects a decode with nothing selected.
	ErrNoAccountsSelected = errors.New("no accounts selected")
)

// Camera is the slice of the camera controller the workflow drives.
type Camera interface {
	Pause()
	Resume()
}

// Workflow is the scan lifecycle state machine. Single instance, tied to the
// scan view being active.
type Workflow struct {
	store  *store.Store
	camera Camera

	state State
	gen   int // bumped on every state transition

	errText string
	errGen  int // bumped on every error text write
}

// New creates an idle workflow.
func New(s *store.Store, camera Camera) *Workflow {
	return &Workflow{store: s, camera: camera}
}

// State returns the current state.
func (w *Workflow) State() State { return w.state }

// Generation returns the current state generation. Timers scheduled for the
// current state carry it and are ignored once it changes.
func (w *Workflow) Generation() int { return w.gen }

// ErrorText returns the transient error text, empty when none is showing.
func (w *Workflow) ErrorText() string { return w.errText }

// ErrorGeneration keys the pending error-clear timer.
func (w *Workflow) ErrorGeneration() int { return w.errGen }

func (w *Workflow) setError(text string) {
	w.errText = text
	w.errGen++
}

// ClearError clears the transient error text if gen still matches, i.e. no
// newer error has been shown since the clear timer was scheduled.
func (w *Workflow) ClearError(gen int) {
	if gen == w.errGen {
		w.errText = ""
	}
}

// Decode handles a decoded payload. Only accepted in Idle with at least one
// selected account; an accepted decode pauses the camera, enters Processing
// and returns the targets plus the generation the eventual FinishCheckin
// call must carry. On ErrNoAccountsSelected the workflow shows transient
// error text; the caller schedules ClearError(ErrorGeneration()) for it.
func (w *Workflow) Decode(payload string) ([]model.Account, int, error) {
	if w.state != Idle {
		return nil, 0, ErrBusy
	}

	targets := w.store.Selected()
	if len(targets) == 0 {
		w.setError("no accounts selected")
		return nil, 0, ErrNoAccountsSelected
	}

	w.camera.Pause()
	w.errText = ""
	w.state = Processing
	w.gen++
	logger.Info("decode accepted", logger.F("targets", len(targets)), logger.F("payload_len", len(payload)))
	return targets, w.gen, nil
}

// FinishCheckin reconciles a completed check-in call. Stale completions
// (wrong generation, or the workflow was cancelled meanwhile) are ignored;
// the reconciler's store writes are harmless either way. Returns the state
// entered; a result state means the caller schedules TimerFired(Generation())
// after ResultDismiss.
func (w *Workflow) FinishCheckin(gen int, failed int, netErr error) State {
	if gen != w.gen || w.state != Processing {
		return w.state
	}

	if netErr != nil {
		// No timed result screen on a network failure: banner, straight back
		// to idle, camera live again.
		w.setError("request failed")
		w.state = Idle
		w.gen++
		w.camera.Resume()
		return w.state
	}

	if failed == 0 {
		w.state = ResultSuccess
	} else {
		w.state = ResultPartial
	}
	w.gen++
	return w.state
}

// TimerFired handles the result auto-dismiss timer. Ignored unless gen is
// still current and a result is showing.
func (w *Workflow) TimerFired(gen int) {
	if gen != w.gen {
		return
	}
	if w.state != ResultSuccess && w.state != ResultPartial {
		return
	}
	w.state = Idle
	w.gen++
	w.camera.Resume()
}

// Acknowledge is the explicit confirmation on the success screen: deselect
// everything and leave the scan view. Returns true when the caller should
// navigate home.
func (w *Workflow) Acknowledge() bool {
	if w.state != ResultSuccess {
		return false
	}
	w.store.SelectAll(false)
	w.state = Idle
	w.gen++
	return true
}

// Cancel is the view-exit path, accepted from any state: deselect all, drop
// any error text and force idle without waiting for in-flight work. A
// reconciliation still in flight will be ignored by its stale generation.
func (w *Workflow) Cancel() {
	w.store.SelectAll(false)
	w.errText = ""
	w.state = Idle
	w.gen++
}
