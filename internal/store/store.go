// Package store owns the account collection. It is the single source of
// truth for account state; every component mutates it only through
// whole-record replacement, and every mutation persists the full collection.
package store

import (
	"errors"
	"sync"

	"github.com/existflow/onescan/internal/logger"
	"github.com/existflow/onescan/internal/model"
)

// ErrDuplicateID is returned by Add when the id is already registered.
var ErrDuplicateID = errors.New("account id already exists")

// Persister saves and loads the serialized account collection.
type Persister interface {
	Save(accounts []model.Account) error
	Load() []model.Account
}

// Store is an ordered collection of accounts with write-through persistence.
type Store struct {
	mu       sync.Mutex
	accounts []model.Account
	persist  Persister
}

// New creates a store, loading any previously persisted collection.
// A nil persister keeps the store in memory only.
func New(p Persister) *Store {
	s := &Store{persist: p}
	if p != nil {
		s.accounts = p.Load()
	}
	return s
}

// Add inserts a new account, selected and pending. Fails with ErrDuplicateID
// if the id is already present.
func (s *Store) Add(id, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.ID == id {
			return ErrDuplicateID
		}
	}
	s.accounts = append(s.accounts, model.NewAccount(id, secret))
	s.save()
	return nil
}

// Remove deletes an account. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.accounts {
		if a.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			s.save()
			return
		}
	}
}

// ToggleSelected flips selection and clears any stale check-in badge.
func (s *Store) ToggleSelected(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts[i].Selected = !s.accounts[i].Selected
			s.accounts[i].LastCheckin = model.CheckinNone
			s.accounts[i].LastCheckinAt = nil
			s.save()
			return
		}
	}
}

// SelectAll sets selection uniformly across the collection.
func (s *Store) SelectAll(selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		s.accounts[i].Selected = selected
	}
	s.save()
}

// Replace applies patch to the account as an atomic whole-record replacement.
// Replacing an id that has since been removed is a no-op, so a late network
// write cannot resurrect a deleted account.
func (s *Store) Replace(id string, patch func(model.Account) model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.accounts {
		if s.accounts[i].ID == id {
			a := patch(s.accounts[i])
			a.ID = id // id is immutable
			s.accounts[i] = a
			s.save()
			return
		}
	}
}

// Get returns a copy of the account with the given id.
func (s *Store) Get(id string) (model.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return model.Account{}, false
}

// Accounts returns a copy of the collection in insertion order.
func (s *Store) Accounts() []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Selected returns the accounts participating in the next batch.
func (s *Store) Selected() []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Account
	for _, a := range s.accounts {
		if a.Selected {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of accounts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// save persists the whole collection. Persistence failures are logged, not
// surfaced; the in-memory state stays authoritative for the session.
func (s *Store) save() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(s.accounts); err != nil {
		logger.Error("failed to persist accounts", logger.F("error", err))
	}
}
