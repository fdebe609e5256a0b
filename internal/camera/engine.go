// Package camera wraps the external QR decode engine: scanner lifecycle,
// zoom capability detection and touch gesture interpretation.
package camera

import "sync"

// Facing selects which camera the engine should open.
type Facing string

// FacingEnvironment is the rear camera, the only one useful for scanning.
const FacingEnvironment Facing = "environment"

// Config is the stream configuration requested from the decode engine.
type Config struct {
	FPS             int
	BoxSize         int
	PreferredWidth  int
	PreferredHeight int
	ContinuousFocus bool
}

// DefaultConfig mirrors the tuned parameters the app ships with: high
// resolution for light sensitivity, continuous autofocus.
func DefaultConfig() Config {
	return Config{
		FPS:             15,
		BoxSize:         250,
		PreferredWidth:  1920,
		PreferredHeight: 1080,
		ContinuousFocus: true,
	}
}

// DecodeFunc receives decoded payload strings, once per distinct decode.
type DecodeFunc func(payload string)

// ZoomRange is a hardware zoom capability exposed by the active video track.
type ZoomRange struct {
	Min  float64
	Max  float64
	Step float64
}

// Track is the active video track's capability/constraint surface.
type Track interface {
	// ZoomCapability reports the hardware zoom range, if one is exposed.
	ZoomCapability() (ZoomRange, bool)
	// ApplyZoom pushes a zoom constraint to the hardware.
	ApplyZoom(level float64) error
}

// Engine is the external scanning engine surface the controller consumes.
type Engine interface {
	Start(facing Facing, cfg Config, onDecode DecodeFunc, onError func(error)) error
	Pause()
	Resume()
	Stop() error
	Clear()
	// Track returns the active video track, or nil while no stream is attached.
	Track() Track
}

// ManualEngine is an Engine whose decodes are injected programmatically.
// The TUI feeds typed payloads through it and tests drive it directly.
type ManualEngine struct {
	mu       sync.Mutex
	running  bool
	paused   bool
	onDecode DecodeFunc
	track    Track
}

// NewManualEngine creates an idle manual engine.
func NewManualEngine() *ManualEngine {
	return &ManualEngine{}
}

// SetTrack attaches a video track to expose zoom capabilities.
func (e *ManualEngine) SetTrack(t Track) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.track = t
}

// Start begins accepting injected decodes.
func (e *ManualEngine) Start(_ Facing, _ Config, onDecode DecodeFunc, _ func(error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
	e.paused = false
	e.onDecode = onDecode
	return nil
}

// Pause suspends decode delivery without releasing the stream.
func (e *ManualEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
}

// Resume re-enables decode delivery.
func (e *ManualEngine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
}

// Stop releases the stream.
func (e *ManualEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.paused = false
	return nil
}

// Clear tears down listeners.
func (e *ManualEngine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDecode = nil
}

// Track returns the attached track, if any.
func (e *ManualEngine) Track() Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.track
}

// Inject delivers a decoded payload as if the engine had scanned it.
// Dropped while the engine is stopped or paused.
func (e *ManualEngine) Inject(payload string) {
	e.mu.Lock()
	cb := e.onDecode
	ok := e.running && !e.paused && cb != nil
	e.mu.Unlock()

	if ok {
		cb(payload)
	}
}
