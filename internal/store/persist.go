package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/existflow/onescan/internal/logger"
	"github.com/existflow/onescan/internal/model"
	_ "modernc.org/sqlite"
)

// accountsKey is the single kv key holding the serialized account collection.
const accountsKey = "accounts"

// SQLite persists the account collection as one encrypted blob in a kv table.
type SQLite struct {
	db     *sql.DB
	crypto *Crypto
}

// DefaultDBPath returns the default database path (~/.onescan/onescan.db)
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".onescan", "onescan.db"), nil
}

// Open opens or creates the SQLite database and the at-rest keyfile.
func Open(dbPath, keyPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	crypto, err := LoadOrCreateKey(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyfile: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &SQLite{db: sqlDB, crypto: crypto}, nil
}

// OpenDefault opens the database and keyfile at their default paths.
func OpenDefault() (*SQLite, error) {
	dbPath, err := DefaultDBPath()
	if err != nil {
		return nil, err
	}
	keyPath := filepath.Join(filepath.Dir(dbPath), "store.key")
	return Open(dbPath, keyPath)
}

// Save serializes and encrypts the whole collection under one key.
func (p *SQLite) Save(accounts []model.Account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to marshal accounts: %w", err)
	}

	blob, err := p.crypto.Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt accounts: %w", err)
	}

	_, err = p.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		accountsKey, blob,
	)
	return err
}

// Load deserializes the persisted collection. Absence, an undecryptable blob,
// or a parse failure all yield an empty collection, never an error.
func (p *SQLite) Load() []model.Account {
	var blob string
	err := p.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, accountsKey).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		logger.Warn("failed to read persisted accounts", logger.F("error", err))
		return nil
	}

	data, err := p.crypto.Decrypt(blob)
	if err != nil {
		logger.Warn("failed to decrypt persisted accounts", logger.F("error", err))
		return nil
	}

	var accounts []model.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		logger.Warn("persisted accounts are corrupt, starting empty", logger.F("error", err))
		return nil
	}
	return accounts
}

// Close closes the database connection
func (p *SQLite) Close() error {
	return p.db.Close()
}
