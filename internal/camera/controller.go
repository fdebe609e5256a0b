package camera

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/existflow/onescan/internal/logger"
)

// ErrCameraUnavailable is surfaced when the engine cannot acquire a stream.
var ErrCameraUnavailable = errors.New("camera unavailable")

// State is the controller's lifecycle state.
type State int

const (
	Uninitialized State = iota
	Starting
	Running
	Paused
	Stopping
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopping:
		return "stopping"
	default:
		return "uninitialized"
	}
}

const (
	// Software-only zoom bounds when the track exposes no capability.
	softwareZoomMin = 1.0
	softwareZoomMax = 5.0

	// FocusMarkerTTL is how long a tap-to-focus marker stays visible.
	FocusMarkerTTL = 800 * time.Millisecond

	// ProbeDelay is the pragmatic wait after stream start before probing the
	// track, giving the video element time to attach. Not a correctness
	// requirement: a missed probe just leaves zoom software-only.
	ProbeDelay = 300 * time.Millisecond
)

// ZoomState is the normalized zoom model. Owned by the controller; the UI
// layer only reads it.
type ZoomState struct {
	Level    float64
	Range    *ZoomRange // nil means software zoom only
	Pinching bool
}

// FocusPoint is a transient tap-to-focus marker.
type FocusPoint struct {
	X, Y      float64
	ExpiresAt time.Time
}

// Controller owns the decode engine lifecycle and the zoom/focus model.
type Controller struct {
	mu     sync.Mutex
	engine Engine
	state  State

	onDecode DecodeFunc

	zoom          ZoomState
	pinchDistance float64 // initial pairwise distance, 0 when not pinching
	pinchZoom     float64 // zoom level when the pinch began
	focus         *FocusPoint

	now func() time.Time
}

// NewController wraps the given engine. The engine instance is created once
// and reused across start/stop cycles.
func NewController(engine Engine) *Controller {
	return &Controller{
		engine: engine,
		zoom:   ZoomState{Level: softwareZoomMin},
		now:    time.Now,
	}
}

// WithClock overrides the controller's clock. Used by tests.
func (c *Controller) WithClock(now func() time.Time) *Controller {
	c.now = now
	return c
}

// SetDecodeHandler registers the callback for decoded payloads. Decodes are
// forwarded only while the controller is running.
func (c *Controller) SetDecodeHandler(fn DecodeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDecode = fn
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Zoom returns a snapshot of the zoom model.
func (c *Controller) Zoom() ZoomState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// Start acquires the camera stream. Only legal from Uninitialized; a failed
// acquisition returns to Uninitialized and surfaces ErrCameraUnavailable.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.state != Uninitialized {
		c.mu.Unlock()
		return nil
	}
	c.state = Starting
	c.mu.Unlock()

	err := c.engine.Start(FacingEnvironment, DefaultConfig(), c.deliver, func(err error) {
		// Per-frame decode misses are expected noise.
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = Uninitialized
		logger.Error("camera start failed", logger.F("error", err))
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	c.state = Running
	return nil
}

// deliver forwards a decode to the registered handler while running.
func (c *Controller) deliver(payload string) {
	c.mu.Lock()
	fn := c.onDecode
	running := c.state == Running
	c.mu.Unlock()

	if running && fn != nil {
		fn(payload)
	}
}

// ProbeCapabilities inspects the active track for a hardware zoom range.
// Called a short delay after Start; finding no track leaves zoom
// software-only rather than erroring.
func (c *Controller) ProbeCapabilities() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Running {
		return
	}

	track := c.engine.Track()
	if track == nil {
		c.zoom.Range = nil
		return
	}
	capability, ok := track.ZoomCapability()
	if !ok {
		c.zoom.Range = nil
		return
	}
	c.zoom.Range = &capability
	c.zoom.Level = capability.Min
	logger.Debug("hardware zoom available",
		logger.F("min", capability.Min), logger.F("max", capability.Max))
}

// Pause suspends decoding after a successful scan.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Running {
		return
	}
	c.engine.Pause()
	c.state = Paused
}

// Resume re-enables decoding.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Paused {
		return
	}
	c.engine.Resume()
	c.state = Running
}

// Stop releases the stream and tears down listeners. Legal from any state
// and guaranteed not to propagate engine failures: leaving the scan view
// must always release the camera, even mid-decode.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state == Uninitialized {
		c.mu.Unlock()
		return
	}
	c.state = Stopping
	c.mu.Unlock()

	func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("camera engine panicked on stop", logger.F("panic", r))
			}
		}()
		if err := c.engine.Stop(); err != nil {
			logger.Warn("camera stop error", logger.F("error", err))
		}
		c.engine.Clear()
	}()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Uninitialized
	c.zoom.Pinching = false
	c.pinchDistance = 0
	c.focus = nil
}

// ApplyZoom clamps the level into the active range and applies it. The local
// level is written first so the UI stays responsive even when the hardware
// call fails; hardware failures are logged and swallowed since a software
// fallback scale is always valid.
func (c *Controller) ApplyZoom(level float64) {
	c.mu.Lock()
	min, max := softwareZoomMin, softwareZoomMax
	if c.zoom.Range != nil {
		min, max = c.zoom.Range.Min, c.zoom.Range.Max
	}
	clamped := math.Min(math.Max(level, min), max)
	c.zoom.Level = clamped
	hw := c.zoom.Range != nil
	c.mu.Unlock()

	if !hw {
		return
	}
	track := c.engine.Track()
	if track == nil {
		return
	}
	if err := track.ApplyZoom(clamped); err != nil {
		logger.Debug("hardware zoom rejected", logger.F("level", clamped), logger.F("error", err))
	}
}
