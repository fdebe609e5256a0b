// Package refresh maps a pull-down gesture on the account list to a
// session-liveness probe. Pure gesture math; the caller runs the probe.
package refresh

// Damping divides the raw finger travel to get the visible pull distance.
const Damping = 2.5

// DefaultThreshold is the visible distance a release must exceed to trigger
// a refresh.
const DefaultThreshold = 60.0

// Pull tracks one pull-to-refresh gesture on a vertically scrollable list.
// Active only while the list is scrolled to its top.
type Pull struct {
	threshold  float64
	startY     float64
	tracking   bool
	distance   float64
	refreshing bool
}

// New creates a pull tracker with the given release threshold; zero or
// negative falls back to DefaultThreshold.
func New(threshold float64) *Pull {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Pull{threshold: threshold}
}

// Start records the finger-down position. Ignored when the list is not at
// its top or a refresh is already running.
func (p *Pull) Start(y float64, atTop bool) {
	if !atTop || p.refreshing {
		p.tracking = false
		return
	}
	p.tracking = true
	p.startY = y
	p.distance = 0
}

// Move updates the visible pull distance: the raw delta damped, clamped to
// zero when the gesture is inactive or the finger moved back up.
func (p *Pull) Move(y float64, atTop bool) float64 {
	if !p.tracking || !atTop || p.refreshing {
		p.distance = 0
		return 0
	}
	raw := y - p.startY
	if raw <= 0 {
		p.distance = 0
		return 0
	}
	p.distance = raw / Damping
	return p.distance
}

// End finishes the gesture. Returns true when the release crossed the
// threshold, in which case the caller starts the probe and marks the tracker
// refreshing until Done.
func (p *Pull) End() bool {
	triggered := p.tracking && p.distance > p.threshold
	p.tracking = false
	p.distance = 0
	if triggered {
		p.refreshing = true
	}
	return triggered
}

// Done clears the refreshing flag once the probe has resolved.
func (p *Pull) Done() {
	p.refreshing = false
}

// Distance returns the current visible pull distance.
func (p *Pull) Distance() float64 { return p.distance }

// Refreshing reports whether a probe is currently running.
func (p *Pull) Refreshing() bool { return p.refreshing }
