package store

import (
	"path/filepath"
	"testing"

	"github.com/existflow/onescan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*SQLite, string) {
	t.Helper()
	dir := t.TempDir()
	p, err := Open(filepath.Join(dir, "onescan.db"), filepath.Join(dir, "store.key"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p, dir
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p, _ := openTemp(t)

	accounts := []model.Account{
		model.NewAccount("d1234567", "secret-one"),
		model.NewAccount("d7654321", "secret-two"),
	}
	require.NoError(t, p.Save(accounts))

	loaded := p.Load()
	require.Len(t, loaded, 2)
	assert.Equal(t, "d1234567", loaded[0].ID)
	assert.Equal(t, "secret-one", loaded[0].Secret)
	assert.Equal(t, model.SessionPending, loaded[1].SessionState)
}

func TestLoadEmptyDatabase(t *testing.T) {
	p, _ := openTemp(t)
	assert.Nil(t, p.Load())
}

func TestSaveOverwrites(t *testing.T) {
	p, _ := openTemp(t)

	require.NoError(t, p.Save([]model.Account{model.NewAccount("u1", "pw")}))
	require.NoError(t, p.Save([]model.Account{model.NewAccount("u2", "pw")}))

	loaded := p.Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, "u2", loaded[0].ID)
}

func TestSecretsEncryptedAtRest(t *testing.T) {
	p, _ := openTemp(t)
	require.NoError(t, p.Save([]model.Account{model.NewAccount("u1", "plaintext-secret")}))

	var blob string
	require.NoError(t, p.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, accountsKey).Scan(&blob))
	assert.NotContains(t, blob, "plaintext-secret")
	assert.NotContains(t, blob, "u1")
}

func TestLoadWithWrongKeyStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "onescan.db")

	first, err := Open(dbPath, filepath.Join(dir, "a.key"))
	require.NoError(t, err)
	require.NoError(t, first.Save([]model.Account{model.NewAccount("u1", "pw")}))
	require.NoError(t, first.Close())

	// Reopening with a different keyfile cannot decrypt the blob; the store
	// degrades to empty instead of failing startup.
	second, err := Open(dbPath, filepath.Join(dir, "b.key"))
	require.NoError(t, err)
	defer second.Close()
	assert.Nil(t, second.Load())
}

func TestKeyfileReuse(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "store.key")

	c1, err := LoadOrCreateKey(keyPath)
	require.NoError(t, err)
	c2, err := LoadOrCreateKey(keyPath)
	require.NoError(t, err)

	blob, err := c1.Encrypt([]byte("hello"))
	require.NoError(t, err)
	data, err := c2.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}
