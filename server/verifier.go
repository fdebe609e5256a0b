package server

import (
	"context"
	"errors"
)

// Verifier checks one account's credentials against the upstream system.
type Verifier interface {
	Verify(ctx context.Context, id, password string) error
}

// ErrInvalidCredentials is returned for a rejected id/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// DevVerifier is the default development verifier: any account with a
// non-empty password is accepted. Wire a real upstream Verifier in
// production deployments.
type DevVerifier struct{}

// Verify accepts any non-empty password.
func (DevVerifier) Verify(_ context.Context, id, password string) error {
	if id == "" || password == "" {
		return ErrInvalidCredentials
	}
	return nil
}

// StaticVerifier accepts only the configured id/password pairs. Useful for
// tests and deterministic demo setups.
type StaticVerifier map[string]string

// Verify checks the pair against the configured map.
func (v StaticVerifier) Verify(_ context.Context, id, password string) error {
	want, ok := v[id]
	if !ok || want != password {
		return ErrInvalidCredentials
	}
	return nil
}
