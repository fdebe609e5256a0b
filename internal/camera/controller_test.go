package camera

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTrack scripts a hardware zoom capability.
type fakeTrack struct {
	capability ZoomRange
	hasZoom    bool
	applied    []float64
	applyErr   error
}

func (t *fakeTrack) ZoomCapability() (ZoomRange, bool) { return t.capability, t.hasZoom }

func (t *fakeTrack) ApplyZoom(level float64) error {
	t.applied = append(t.applied, level)
	return t.applyErr
}

// failEngine refuses to start.
type failEngine struct {
	ManualEngine
}

func (e *failEngine) Start(Facing, Config, DecodeFunc, func(error)) error {
	return errors.New("NotAllowedError")
}

// panicEngine panics on stop, like a torn-down DOM element.
type panicEngine struct {
	ManualEngine
}

func (e *panicEngine) Stop() error { panic("element removed") }

func testClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

func TestStartStopLifecycle(t *testing.T) {
	c := NewController(NewManualEngine())
	assert.Equal(t, Uninitialized, c.State())

	require.NoError(t, c.Start())
	assert.Equal(t, Running, c.State())

	// A second start is a no-op.
	require.NoError(t, c.Start())
	assert.Equal(t, Running, c.State())

	c.Stop()
	assert.Equal(t, Uninitialized, c.State())
}

func TestStartFailureSurfacesUnavailable(t *testing.T) {
	c := NewController(&failEngine{})
	err := c.Start()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCameraUnavailable)
	assert.Equal(t, Uninitialized, c.State(), "failed start is retryable")
}

func TestPauseResume(t *testing.T) {
	c := NewController(NewManualEngine())
	require.NoError(t, c.Start())

	c.Pause()
	assert.Equal(t, Paused, c.State())
	c.Pause()
	assert.Equal(t, Paused, c.State())

	c.Resume()
	assert.Equal(t, Running, c.State())

	// Resume outside Paused is ignored.
	c.Resume()
	assert.Equal(t, Running, c.State())
}

func TestDecodeDeliveryGatedByState(t *testing.T) {
	engine := NewManualEngine()
	c := NewController(engine)

	var got []string
	c.SetDecodeHandler(func(p string) { got = append(got, p) })

	engine.Inject("before-start")
	require.NoError(t, c.Start())
	engine.Inject("while-running")
	c.Pause()
	engine.Inject("while-paused")
	c.Resume()
	engine.Inject("after-resume")
	c.Stop()
	engine.Inject("after-stop")

	assert.Equal(t, []string{"while-running", "after-resume"}, got)
}

func TestStopSurvivesEnginePanic(t *testing.T) {
	c := NewController(&panicEngine{})
	require.NoError(t, c.Start())

	assert.NotPanics(t, func() { c.Stop() })
	assert.Equal(t, Uninitialized, c.State())
}

func TestProbeCapabilitiesHardware(t *testing.T) {
	engine := NewManualEngine()
	engine.SetTrack(&fakeTrack{capability: ZoomRange{Min: 1, Max: 8, Step: 0.1}, hasZoom: true})
	c := NewController(engine)
	require.NoError(t, c.Start())

	c.ProbeCapabilities()
	zoom := c.Zoom()
	require.NotNil(t, zoom.Range)
	assert.Equal(t, 8.0, zoom.Range.Max)
	assert.Equal(t, 1.0, zoom.Level, "level resets to the hardware minimum")
}

func TestProbeCapabilitiesSoftwareFallback(t *testing.T) {
	engine := NewManualEngine()
	c := NewController(engine)
	require.NoError(t, c.Start())

	// No track attached at all.
	c.ProbeCapabilities()
	assert.Nil(t, c.Zoom().Range)

	// Track attached but without a zoom capability.
	engine.SetTrack(&fakeTrack{hasZoom: false})
	c.ProbeCapabilities()
	assert.Nil(t, c.Zoom().Range)
}

func TestProbeIgnoredUnlessRunning(t *testing.T) {
	engine := NewManualEngine()
	engine.SetTrack(&fakeTrack{capability: ZoomRange{Min: 1, Max: 4}, hasZoom: true})
	c := NewController(engine)

	c.ProbeCapabilities()
	assert.Nil(t, c.Zoom().Range)
}

func TestApplyZoomClampsSoftware(t *testing.T) {
	c := NewController(NewManualEngine())
	require.NoError(t, c.Start())

	c.ApplyZoom(0.3)
	assert.Equal(t, 1.0, c.Zoom().Level)

	c.ApplyZoom(9.5)
	assert.Equal(t, 5.0, c.Zoom().Level)

	c.ApplyZoom(2.5)
	assert.Equal(t, 2.5, c.Zoom().Level)
}

func TestApplyZoomClampsToHardwareRange(t *testing.T) {
	track := &fakeTrack{capability: ZoomRange{Min: 1, Max: 10, Step: 0.1}, hasZoom: true}
	engine := NewManualEngine()
	engine.SetTrack(track)
	c := NewController(engine)
	require.NoError(t, c.Start())
	c.ProbeCapabilities()

	c.ApplyZoom(7.5)
	assert.Equal(t, 7.5, c.Zoom().Level)
	require.Len(t, track.applied, 1)
	assert.Equal(t, 7.5, track.applied[0])

	c.ApplyZoom(25)
	assert.Equal(t, 10.0, c.Zoom().Level)
}

func TestApplyZoomSwallowsHardwareFailure(t *testing.T) {
	track := &fakeTrack{capability: ZoomRange{Min: 1, Max: 4}, hasZoom: true, applyErr: errors.New("OverconstrainedError")}
	engine := NewManualEngine()
	engine.SetTrack(track)
	c := NewController(engine)
	require.NoError(t, c.Start())
	c.ProbeCapabilities()

	c.ApplyZoom(3)
	assert.Equal(t, 3.0, c.Zoom().Level, "local level wins even when the hardware call fails")
}

func TestPinchZoomSoftware(t *testing.T) {
	c := NewController(NewManualEngine())
	require.NoError(t, c.Start())

	c.TouchStart([]Touch{{X: 0, Y: 0}, {X: 100, Y: 0}})
	assert.True(t, c.Zoom().Pinching)

	// Doubling the pairwise distance: target = 1 + (2-1)*(5-1)/2 = 3.
	c.TouchMove([]Touch{{X: 0, Y: 0}, {X: 200, Y: 0}})
	assert.InDelta(t, 3.0, c.Zoom().Level, 0.001)

	c.TouchEnd()
	assert.False(t, c.Zoom().Pinching)
}

func TestPinchZoomHardwareSpan(t *testing.T) {
	track := &fakeTrack{capability: ZoomRange{Min: 1, Max: 9}, hasZoom: true}
	engine := NewManualEngine()
	engine.SetTrack(track)
	c := NewController(engine)
	require.NoError(t, c.Start())
	c.ProbeCapabilities()

	c.TouchStart([]Touch{{X: 0, Y: 0}, {X: 100, Y: 0}})
	// Scale 1.5 over span 8: target = 1 + 0.5*8/2 = 3.
	c.TouchMove([]Touch{{X: 0, Y: 0}, {X: 150, Y: 0}})
	assert.InDelta(t, 3.0, c.Zoom().Level, 0.001)
}

func TestPinchInwardZoomsOut(t *testing.T) {
	c := NewController(NewManualEngine())
	require.NoError(t, c.Start())
	c.ApplyZoom(3)

	c.TouchStart([]Touch{{X: 0, Y: 0}, {X: 200, Y: 0}})
	// Halving the distance: target = 3 + (0.5-1)*4/2 = 2.
	c.TouchMove([]Touch{{X: 0, Y: 0}, {X: 100, Y: 0}})
	assert.InDelta(t, 2.0, c.Zoom().Level, 0.001)
}

func TestTouchMoveWithoutPinchIsIgnored(t *testing.T) {
	c := NewController(NewManualEngine())
	require.NoError(t, c.Start())

	c.TouchMove([]Touch{{X: 0, Y: 0}, {X: 300, Y: 0}})
	assert.Equal(t, 1.0, c.Zoom().Level)
}

func TestFocusMarkerExpiry(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	c := NewController(NewManualEngine()).WithClock(testClock(&at))

	c.TouchStart([]Touch{{X: 40, Y: 60}})
	marker := c.FocusMarker()
	require.NotNil(t, marker)
	assert.Equal(t, 40.0, marker.X)
	assert.Equal(t, 60.0, marker.Y)

	at = at.Add(FocusMarkerTTL - time.Millisecond)
	assert.NotNil(t, c.FocusMarker())

	at = at.Add(2 * time.Millisecond)
	assert.Nil(t, c.FocusMarker())
}

func TestStopResetsGestureState(t *testing.T) {
	at := time.Now()
	c := NewController(NewManualEngine()).WithClock(testClock(&at))
	require.NoError(t, c.Start())

	c.TouchStart([]Touch{{X: 0, Y: 0}, {X: 100, Y: 0}})
	c.TouchStart([]Touch{{X: 10, Y: 10}})
	c.Stop()

	assert.False(t, c.Zoom().Pinching)
	assert.Nil(t, c.FocusMarker())
}
