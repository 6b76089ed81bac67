package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireVerified(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare func(t *testing.T, store Store)
		admit   bool
	}{
		{
			name:    "absent session is redirected",
			prepare: func(t *testing.T, store Store) {},
			admit:   false,
		},
		{
			name: "pending (partially-verified) session is redirected",
			prepare: func(t *testing.T, store Store) {
				require.NoError(t, store.SetPending(ctx, "jo", "jo@example.com", ""))
			},
			admit: false,
		},
		{
			name: "verified session is admitted",
			prepare: func(t *testing.T, store Store) {
				require.NoError(t, store.SetVerified(ctx, "jo", "jo@example.com", ""))
			},
			admit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupFileStore(t)
			tt.prepare(t, store)

			sess, err := RequireVerified(ctx, store)
			if tt.admit {
				require.NoError(t, err)
				assert.True(t, sess.Verified)
			} else {
				assert.ErrorIs(t, err, ErrNotVerified)
			}
		})
	}
}

func TestGuardReadsFresh(t *testing.T) {
	ctx := context.Background()
	store := setupFileStore(t)

	require.NoError(t, store.SetVerified(ctx, "jo", "jo@example.com", ""))
	_, err := RequireVerified(ctx, store)
	require.NoError(t, err)

	// Logout between two guard checks is honored on the very next one:
	// the guard never caches.
	require.NoError(t, store.Clear(ctx))
	_, err = RequireVerified(ctx, store)
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{name: "normal address", email: "patient@example.com", expected: "pa****@example.com"},
		{name: "two-char local part", email: "jo@example.com", expected: "jo****@example.com"},
		{name: "one-char local part falls back", email: "j@example.com", expected: "your email"},
		{name: "empty falls back", email: "", expected: "your email"},
		{name: "no at-sign falls back", email: "not-an-email", expected: "your email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskEmail(tt.email))
		})
	}
}
