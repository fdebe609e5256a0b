// Package reconcile merges asynchronous batch-API responses back into the
// account store. Every network-driven state transition on accounts goes
// through here; writes are last-write-wins whole-record replacements.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/existflow/onescan/internal/api"
	"github.com/existflow/onescan/internal/logger"
	"github.com/existflow/onescan/internal/model"
	"github.com/existflow/onescan/internal/store"
)

// ErrNoAccountsSelected is returned when a check-in is attempted with an
// empty target set. No network call is made.
var ErrNoAccountsSelected = errors.New("no accounts selected")

// BatchAPI is the slice of the backend client the reconciler needs.
type BatchAPI interface {
	LoginBatch(ctx context.Context, users []api.Credential) (*api.BatchResponse, error)
	CheckinBatch(ctx context.Context, qrData string, users []api.Credential) (*api.BatchResponse, error)
}

// Reconciler dispatches batch operations and reconciles their results.
type Reconciler struct {
	store  *store.Store
	client BatchAPI
	now    func() time.Time
}

// New creates a reconciler over the given store and backend client.
func New(s *store.Store, client BatchAPI) *Reconciler {
	return &Reconciler{store: s, client: client, now: time.Now}
}

// WithClock overrides the reconciler's clock. Used by tests.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

func credentials(accounts []model.Account) []api.Credential {
	creds := make([]api.Credential, 0, len(accounts))
	for _, a := range accounts {
		creds = append(creds, api.Credential{ID: a.ID, Password: a.Secret})
	}
	return creds
}

func indexResults(resp *api.BatchResponse) map[string]api.Result {
	out := make(map[string]api.Result, len(resp.Results))
	for _, res := range resp.Results {
		out[res.ID] = res
	}
	return out
}

// RunLogin marks every target as verifying, issues one batched login request
// and merges per-account results. A target absent from the response keeps its
// prior session state. A network-level failure marks every target
// unauthenticated and returns the error to the caller.
func (r *Reconciler) RunLogin(ctx context.Context, accounts []model.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	prior := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		prior[a.ID] = a
		r.store.Replace(a.ID, func(acc model.Account) model.Account {
			acc.SessionState = model.SessionVerifying
			acc.StatusMessage = "connecting"
			return acc
		})
	}

	resp, err := r.client.LoginBatch(ctx, credentials(accounts))
	if err != nil {
		logger.Error("batch login failed", logger.F("accounts", len(accounts)), logger.F("error", err))
		for _, a := range accounts {
			r.store.Replace(a.ID, func(acc model.Account) model.Account {
				acc.SessionState = model.SessionUnauthenticated
				acc.SessionExpiresAt = nil
				acc.StatusMessage = "connection failed"
				return acc
			})
		}
		return fmt.Errorf("batch login: %w", err)
	}

	results := indexResults(resp)
	for _, a := range accounts {
		result, ok := results[a.ID]
		if !ok {
			// Unknown outcome: restore the state the account had before the
			// optimistic verifying write.
			prev := prior[a.ID]
			r.store.Replace(a.ID, func(acc model.Account) model.Account {
				acc.SessionState = prev.SessionState
				acc.SessionExpiresAt = prev.SessionExpiresAt
				acc.StatusMessage = prev.StatusMessage
				return acc
			})
			continue
		}
		r.applyLoginResult(a.ID, result)
	}
	return nil
}

func (r *Reconciler) applyLoginResult(id string, result api.Result) {
	r.store.Replace(id, func(acc model.Account) model.Account {
		if result.Status == api.StatusSuccess {
			expiry := r.now().Add(model.SessionTTL)
			acc.SessionState = model.SessionAuthenticated
			acc.SessionExpiresAt = &expiry
		} else {
			acc.SessionState = model.SessionUnauthenticated
			acc.SessionExpiresAt = nil
		}
		acc.StatusMessage = result.Message
		return acc
	})
}

// RunCheckin issues one batched check-in request carrying the scanned payload
// and returns the number of failed accounts. Targets absent from the response
// and full network failures are both recorded as failures so no account is
// left stuck in-flight.
func (r *Reconciler) RunCheckin(ctx context.Context, accounts []model.Account, payload string) (int, error) {
	if len(accounts) == 0 {
		return 0, ErrNoAccountsSelected
	}

	for _, a := range accounts {
		r.store.Replace(a.ID, func(acc model.Account) model.Account {
			acc.StatusMessage = "checking in"
			return acc
		})
	}

	resp, err := r.client.CheckinBatch(ctx, payload, credentials(accounts))
	if err != nil {
		logger.Error("batch check-in failed", logger.F("accounts", len(accounts)), logger.F("error", err))
		now := r.now()
		for _, a := range accounts {
			r.store.Replace(a.ID, func(acc model.Account) model.Account {
				acc.LastCheckin = model.CheckinFailure
				acc.LastCheckinAt = &now
				acc.StatusMessage = "request failed"
				return acc
			})
		}
		return len(accounts), fmt.Errorf("batch check-in: %w", err)
	}

	results := indexResults(resp)
	now := r.now()
	failed := 0
	for _, a := range accounts {
		result, ok := results[a.ID]
		outcome := model.CheckinFailure
		message := "no result for account"
		if ok {
			message = result.Message
			if result.Status == api.StatusSuccess {
				outcome = model.CheckinSuccess
			}
		}
		if outcome == model.CheckinFailure {
			failed++
		}
		r.store.Replace(a.ID, func(acc model.Account) model.Account {
			acc.LastCheckin = outcome
			acc.LastCheckinAt = &now
			acc.StatusMessage = message
			return acc
		})
	}
	logger.Info("check-in reconciled", logger.F("targets", len(accounts)), logger.F("failed", failed))
	return failed, nil
}

// RunProbe re-runs login against currently authenticated accounts as a
// session-liveness probe. A FAILED result demotes the account; a network
// failure demotes nothing, since connectivity trouble is not evidence of an
// invalid session, and only swaps the display message.
func (r *Reconciler) RunProbe(ctx context.Context) error {
	var targets []model.Account
	for _, a := range r.store.Accounts() {
		if a.Authenticated() {
			targets = append(targets, a)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	for _, a := range targets {
		r.store.Replace(a.ID, func(acc model.Account) model.Account {
			acc.SessionState = model.SessionVerifying
			acc.StatusMessage = "checking"
			return acc
		})
	}

	resp, err := r.client.LoginBatch(ctx, credentials(targets))
	if err != nil {
		logger.Warn("liveness probe unreachable", logger.F("error", err))
		for _, a := range targets {
			prev := a
			r.store.Replace(a.ID, func(acc model.Account) model.Account {
				acc.SessionState = prev.SessionState
				acc.SessionExpiresAt = prev.SessionExpiresAt
				acc.StatusMessage = "unable to verify"
				return acc
			})
		}
		return nil
	}

	results := indexResults(resp)
	for _, a := range targets {
		result, ok := results[a.ID]
		prev := a
		if !ok {
			r.store.Replace(a.ID, func(acc model.Account) model.Account {
				acc.SessionState = prev.SessionState
				acc.SessionExpiresAt = prev.SessionExpiresAt
				return acc
			})
			continue
		}
		r.store.Replace(a.ID, func(acc model.Account) model.Account {
			if result.Status == api.StatusSuccess {
				acc.SessionState = model.SessionAuthenticated
				acc.SessionExpiresAt = prev.SessionExpiresAt
				acc.StatusMessage = "status ok"
			} else {
				acc.SessionState = model.SessionUnauthenticated
				acc.SessionExpiresAt = nil
				acc.StatusMessage = "credentials expired"
			}
			return acc
		})
	}
	return nil
}

// ForceLogin logs in every account that needs it (not authenticated, or past
// its advisory expiry). When every account looks healthy it refreshes all of
// them instead.
func (r *Reconciler) ForceLogin(ctx context.Context) error {
	all := r.store.Accounts()
	var targets []model.Account
	now := r.now()
	for _, a := range all {
		if a.NeedsLogin(now) {
			targets = append(targets, a)
		}
	}
	if len(targets) == 0 {
		targets = all
	}
	return r.RunLogin(ctx, targets)
}
