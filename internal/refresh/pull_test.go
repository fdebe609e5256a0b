package refresh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPullDamping(t *testing.T) {
	p := New(60)
	p.Start(100, true)

	assert.InDelta(t, 20.0, p.Move(150, true), 0.001, "50px of travel shows 20px pulled")
	assert.InDelta(t, 60.0, p.Move(250, true), 0.001)
}

func TestPullThresholdEdge(t *testing.T) {
	p := New(60)

	// Release exactly at the threshold does not trigger.
	p.Start(0, true)
	p.Move(150, true) // 150/2.5 = 60
	assert.False(t, p.End())
	assert.False(t, p.Refreshing())

	// Just past it does.
	p.Start(0, true)
	p.Move(151, true)
	assert.True(t, p.End())
	assert.True(t, p.Refreshing())

	p.Done()
	assert.False(t, p.Refreshing())
}

func TestPullIgnoredWhenNotAtTop(t *testing.T) {
	p := New(60)

	p.Start(0, false)
	assert.Zero(t, p.Move(500, false))
	assert.False(t, p.End())

	// Scrolling away mid-gesture collapses the indicator.
	p.Start(0, true)
	p.Move(200, true)
	assert.Zero(t, p.Move(300, false))
	assert.False(t, p.End())
}

func TestPullUpwardMovementClampsToZero(t *testing.T) {
	p := New(60)
	p.Start(100, true)

	assert.Zero(t, p.Move(50, true))
	assert.Zero(t, p.Distance())
}

func TestPullIgnoredWhileRefreshing(t *testing.T) {
	p := New(60)
	p.Start(0, true)
	p.Move(200, true)
	assert.True(t, p.End())

	// A second gesture before Done does nothing.
	p.Start(0, true)
	assert.Zero(t, p.Move(500, true))
	assert.False(t, p.End())
	assert.True(t, p.Refreshing())
}

func TestPullDefaultThreshold(t *testing.T) {
	p := New(0)
	p.Start(0, true)
	p.Move(151, true)
	assert.True(t, p.End(), "zero threshold falls back to the default")
}
