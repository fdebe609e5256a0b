package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAccountDefaults(t *testing.T) {
	a := NewAccount("d1234567", "hunter2")

	assert.Equal(t, "d1234567", a.ID)
	assert.Equal(t, "hunter2", a.Secret)
	assert.True(t, a.Selected)
	assert.Equal(t, SessionPending, a.SessionState)
	assert.Equal(t, CheckinNone, a.LastCheckin)
	assert.Nil(t, a.LastCheckinAt)
}

func TestBadgeVisibleWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	checked := now.Add(-9*time.Minute - 59*time.Second)
	a := NewAccount("u1", "pw")
	a.LastCheckin = CheckinSuccess
	a.LastCheckinAt = &checked
	assert.True(t, a.BadgeVisible(now))

	stale := now.Add(-10*time.Minute - 1*time.Second)
	a.LastCheckinAt = &stale
	assert.False(t, a.BadgeVisible(now))

	// Exactly at the boundary the badge is gone.
	boundary := now.Add(-BadgeWindow)
	a.LastCheckinAt = &boundary
	assert.False(t, a.BadgeVisible(now))
}

func TestBadgeVisibleRequiresOutcome(t *testing.T) {
	now := time.Now()
	a := NewAccount("u1", "pw")
	assert.False(t, a.BadgeVisible(now))

	a.LastCheckin = CheckinFailure
	assert.False(t, a.BadgeVisible(now), "outcome without timestamp shows nothing")

	a.LastCheckinAt = &now
	assert.True(t, a.BadgeVisible(now.Add(time.Minute)))
}

func TestNeedsLogin(t *testing.T) {
	now := time.Now()

	a := NewAccount("u1", "pw")
	assert.True(t, a.NeedsLogin(now), "pending accounts need login")

	a.SessionState = SessionUnauthenticated
	assert.True(t, a.NeedsLogin(now))

	live := now.Add(10 * time.Minute)
	a.SessionState = SessionAuthenticated
	a.SessionExpiresAt = &live
	assert.False(t, a.NeedsLogin(now))

	expired := now.Add(-time.Minute)
	a.SessionExpiresAt = &expired
	assert.True(t, a.NeedsLogin(now), "advisory expiry forces re-login")

	a.SessionExpiresAt = nil
	assert.False(t, a.NeedsLogin(now), "authenticated without expiry stays live")
}
