// Package session holds the client's persisted authentication state and the
// guard that protects verified-only commands. The session survives process
// restarts (the CLI analogue of a page reload) and is scoped to a profile,
// never shared across machines.
package session

import (
	"context"
	"errors"
	"strings"
)

// Session represents the current user's authentication/verification status.
// Verified is true only after a successful OTP exchange for the associated
// email; it persists until explicit logout.
type Session struct {
	Verified bool   `yaml:"verified"`
	Username string `yaml:"username,omitempty"`
	Email    string `yaml:"email,omitempty"`
	Phone    string `yaml:"phone,omitempty"`
}

// ErrNotVerified is returned by the guard when the stored session has not
// completed OTP verification. Callers redirect the user to login, never to
// the verify step directly.
var ErrNotVerified = errors.New("session is not verified")

// Store persists a Session across invocations.
//
// Clear must be atomic from the caller's perspective: a reader must never
// observe a partially-cleared session (verified false but a stale username
// still present).
type Store interface {
	// Get returns the current session. An absent session is returned as the
	// zero value, not an error.
	Get(ctx context.Context) (Session, error)

	// SetPending records identity fields ahead of OTP verification.
	// Verified remains false, so the guard is unaffected.
	SetPending(ctx context.Context, username, email, phone string) error

	// SetVerified marks the session verified with the given identity.
	SetVerified(ctx context.Context, username, email, phone string) error

	// Clear removes every session field atomically.
	Clear(ctx context.Context) error
}

// RequireVerified is the route guard: it loads the session fresh from the
// store (never cached, so a logout elsewhere is honored on the very next
// guarded command) and admits iff Verified is true.
func RequireVerified(ctx context.Context, store Store) (Session, error) {
	sess, err := store.Get(ctx)
	if err != nil {
		return Session{}, err
	}
	if !sess.Verified {
		return Session{}, ErrNotVerified
	}
	return sess, nil
}

// MaskEmail renders an email for display without revealing the local part,
// e.g. "patient@example.com" → "pa****@example.com". Unparseable values
// fall back to the placeholder identity "your email".
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 2 {
		return "your email"
	}
	return email[:2] + "****" + email[at:]
}
