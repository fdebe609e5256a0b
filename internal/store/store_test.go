package store

import (
	"testing"
	"time"

	"github.com/existflow/onescan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPersister records saves for write-through assertions.
type memPersister struct {
	saved   [][]model.Account
	initial []model.Account
}

func (m *memPersister) Save(accounts []model.Account) error {
	snapshot := make([]model.Account, len(accounts))
	copy(snapshot, accounts)
	m.saved = append(m.saved, snapshot)
	return nil
}

func (m *memPersister) Load() []model.Account { return m.initial }

func TestAddAndDuplicate(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.Add("d1234567", "pw1"))
	require.NoError(t, s.Add("d7654321", "pw2"))
	assert.Equal(t, 2, s.Len())

	err := s.Add("d1234567", "other")
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 2, s.Len())

	// Existing record untouched by the rejected add.
	a, ok := s.Get("d1234567")
	require.True(t, ok)
	assert.Equal(t, "pw1", a.Secret)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Add("u1", "pw"))

	s.Remove("u1")
	assert.Equal(t, 0, s.Len())

	s.Remove("u1")
	s.Remove("never-existed")
	assert.Equal(t, 0, s.Len())
}

func TestToggleSelectedClearsBadge(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Add("u1", "pw"))

	now := time.Now()
	s.Replace("u1", func(a model.Account) model.Account {
		a.LastCheckin = model.CheckinSuccess
		a.LastCheckinAt = &now
		return a
	})

	s.ToggleSelected("u1")
	a, _ := s.Get("u1")
	assert.False(t, a.Selected)
	assert.Equal(t, model.CheckinNone, a.LastCheckin)
	assert.Nil(t, a.LastCheckinAt)

	s.ToggleSelected("u1")
	a, _ = s.Get("u1")
	assert.True(t, a.Selected)
}

func TestSelectAll(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Add("u1", "pw"))
	require.NoError(t, s.Add("u2", "pw"))
	s.ToggleSelected("u2")

	s.SelectAll(true)
	assert.Len(t, s.Selected(), 2)

	s.SelectAll(false)
	assert.Empty(t, s.Selected())
}

func TestReplaceDoesNotResurrect(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Add("u1", "pw"))
	s.Remove("u1")

	// A late reconciler write for a deleted id must be dropped.
	s.Replace("u1", func(a model.Account) model.Account {
		a.SessionState = model.SessionAuthenticated
		return a
	})
	assert.Equal(t, 0, s.Len())
}

func TestReplaceKeepsIDImmutable(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Add("u1", "pw"))

	s.Replace("u1", func(a model.Account) model.Account {
		a.ID = "hijacked"
		a.StatusMessage = "ok"
		return a
	})

	a, ok := s.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "ok", a.StatusMessage)
	_, hijacked := s.Get("hijacked")
	assert.False(t, hijacked)
}

func TestWriteThroughPersistence(t *testing.T) {
	p := &memPersister{}
	s := New(p)

	require.NoError(t, s.Add("u1", "pw"))
	s.ToggleSelected("u1")
	s.Remove("u1")

	require.Len(t, p.saved, 3, "every mutation persists the whole collection")
	assert.Len(t, p.saved[0], 1)
	assert.False(t, p.saved[1][0].Selected)
	assert.Empty(t, p.saved[2])
}

func TestLoadOnOpen(t *testing.T) {
	p := &memPersister{initial: []model.Account{
		model.NewAccount("u1", "pw1"),
		model.NewAccount("u2", "pw2"),
	}}
	s := New(p)

	assert.Equal(t, 2, s.Len())
	accounts := s.Accounts()
	assert.Equal(t, "u1", accounts[0].ID)
	assert.Equal(t, "u2", accounts[1].ID)
}

func TestAccountsReturnsCopy(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Add("u1", "pw"))

	out := s.Accounts()
	out[0].StatusMessage = "mutated"

	a, _ := s.Get("u1")
	assert.Empty(t, a.StatusMessage)
}
