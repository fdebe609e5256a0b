package camera

import "math"

// Touch is one touch point in view coordinates.
type Touch struct {
	X, Y float64
}

func distance(a, b Touch) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// TouchStart interprets the start of a gesture. Two touch points begin a
// pinch; a single point is a focus tap. Gestures never affect the lifecycle
// state machine, only the zoom/focus model.
func (c *Controller) TouchStart(touches []Touch) {
	switch len(touches) {
	case 2:
		c.mu.Lock()
		c.pinchDistance = distance(touches[0], touches[1])
		c.pinchZoom = c.zoom.Level
		c.zoom.Pinching = true
		c.mu.Unlock()
	case 1:
		c.mu.Lock()
		c.focus = &FocusPoint{
			X:         touches[0].X,
			Y:         touches[0].Y,
			ExpiresAt: c.now().Add(FocusMarkerTTL),
		}
		c.mu.Unlock()
	}
}

// TouchMove updates the pinch. The scale factor between the current and
// initial pairwise distances maps to a zoom delta proportional to half the
// active range span.
func (c *Controller) TouchMove(touches []Touch) {
	if len(touches) != 2 {
		return
	}

	c.mu.Lock()
	if !c.zoom.Pinching || c.pinchDistance == 0 {
		c.mu.Unlock()
		return
	}
	scale := distance(touches[0], touches[1]) / c.pinchDistance
	span := softwareZoomMax - softwareZoomMin
	if c.zoom.Range != nil {
		span = c.zoom.Range.Max - c.zoom.Range.Min
	}
	target := c.pinchZoom + (scale-1)*span/2
	c.mu.Unlock()

	c.ApplyZoom(target)
}

// TouchEnd finishes any in-progress pinch.
func (c *Controller) TouchEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinchDistance = 0
	c.zoom.Pinching = false
}

// FocusMarker returns the active tap-to-focus marker, or nil once the
// marker's display window has expired.
func (c *Controller) FocusMarker() *FocusPoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.focus == nil || !c.now().Before(c.focus.ExpiresAt) {
		return nil
	}
	marker := *c.focus
	return &marker
}
