package model

import "time"

// SessionState is the last known login/session outcome for an account.
type SessionState string

const (
	SessionPending         SessionState = "PENDING"
	SessionVerifying       SessionState = "VERIFYING"
	SessionAuthenticated   SessionState = "AUTHENTICATED"
	SessionUnauthenticated SessionState = "UNAUTHENTICATED"
)

// CheckinOutcome is the result of the most recent check-in attempt.
type CheckinOutcome string

const (
	CheckinNone    CheckinOutcome = "NONE"
	CheckinSuccess CheckinOutcome = "SUCCESS"
	CheckinFailure CheckinOutcome = "FAILURE"
)

const (
	// SessionTTL is the advisory session lifetime applied after a successful login.
	SessionTTL = 30 * time.Minute
	// BadgeWindow is how long the check-in outcome badge stays visible.
	BadgeWindow = 10 * time.Minute
)

// Account represents one set of remote credentials under management.
// Secret is opaque credential material and must never be logged.
type Account struct {
	ID               string         `json:"id"`
	Secret           string         `json:"secret"`
	Selected         bool           `json:"selected"`
	SessionState     SessionState   `json:"session_state"`
	SessionExpiresAt *time.Time     `json:"session_expires_at,omitempty"`
	LastCheckin      CheckinOutcome `json:"last_checkin"`
	LastCheckinAt    *time.Time     `json:"last_checkin_at,omitempty"`
	StatusMessage    string         `json:"status_message,omitempty"`
}

// NewAccount creates an account with defaults: selected, pending, no check-in.
func NewAccount(id, secret string) Account {
	return Account{
		ID:           id,
		Secret:       secret,
		Selected:     true,
		SessionState: SessionPending,
		LastCheckin:  CheckinNone,
	}
}

// BadgeVisible reports whether the check-in outcome badge should still show.
func (a *Account) BadgeVisible(now time.Time) bool {
	if a.LastCheckin == CheckinNone || a.LastCheckinAt == nil {
		return false
	}
	return now.Sub(*a.LastCheckinAt) < BadgeWindow
}

// NeedsLogin reports whether the account should be included in a forced login:
// anything not authenticated, or authenticated past its advisory expiry.
func (a *Account) NeedsLogin(now time.Time) bool {
	if a.SessionState != SessionAuthenticated {
		return true
	}
	return a.SessionExpiresAt != nil && now.After(*a.SessionExpiresAt)
}

// Authenticated reports whether the account currently holds a live session.
func (a *Account) Authenticated() bool {
	return a.SessionState == SessionAuthenticated
}
