package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"os"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize          = 32 // AES-256
	nonceSize        = 12 // GCM standard nonce size
	saltSize         = 16
	keyMaterialSize  = 32
	pbkdf2Iterations = 100000
)

// Crypto encrypts the account blob at rest. Secrets have to be replayable to
// the backend, so they are encrypted rather than hashed, under a key derived
// from a locally generated keyfile.
type Crypto struct {
	key []byte
}

// NewCrypto derives an AES key from raw key material and a salt.
func NewCrypto(material, salt []byte) *Crypto {
	key := pbkdf2.Key(material, salt, pbkdf2Iterations, keySize, sha256.New)
	return &Crypto{key: key}
}

// LoadOrCreateKey reads the keyfile at path, generating one on first run.
// The file holds base64(salt || key material).
func LoadOrCreateKey(path string) (*Crypto, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		raw, derr := base64.StdEncoding.DecodeString(string(data))
		if derr != nil || len(raw) != saltSize+keyMaterialSize {
			return nil, errors.New("keyfile is corrupt")
		}
		return NewCrypto(raw[saltSize:], raw[:saltSize]), nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	raw := make([]byte, saltSize+keyMaterialSize)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(encoded), 0600); err != nil {
		return nil, err
	}
	return NewCrypto(raw[saltSize:], raw[:saltSize]), nil
}

// Encrypt encrypts data using AES-256-GCM
func (c *Crypto) Encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// Seal appends nonce + ciphertext
	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts data using AES-256-GCM
func (c *Crypto) Decrypt(encrypted string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, err
	}

	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.New("decryption failed: invalid key or corrupted data")
	}

	return plaintext, nil
}
