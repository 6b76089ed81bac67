package otp

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idcscan/idcscan/internal/api"
)

type fakeVerifier struct {
	calls atomic.Int32
	err   error
}

func (f *fakeVerifier) VerifyOTP(ctx context.Context, email, otp string) error {
	f.calls.Add(1)
	return f.err
}

func TestFlowStartsAwaitingCode(t *testing.T) {
	flow := NewFlow(&fakeVerifier{}, "jo@example.com")
	assert.Equal(t, StateAwaitingCode, flow.State())
	assert.Equal(t, "jo@example.com", flow.Email())
}

func TestFlowAllowsUnknownEmail(t *testing.T) {
	// The view still renders with a placeholder identity when the email was
	// not carried from the prior step.
	flow := NewFlow(&fakeVerifier{}, "")
	assert.Equal(t, "", flow.Email())
	assert.Equal(t, StateAwaitingCode, flow.State())
}

func TestFlowRefusesEmptyCode(t *testing.T) {
	fake := &fakeVerifier{}
	flow := NewFlow(fake, "jo@example.com")

	err := flow.Submit(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyCode)
	assert.Equal(t, int32(0), fake.calls.Load(), "empty code must not reach the network")
	assert.Equal(t, StateAwaitingCode, flow.State())
}

func TestFlowVerifies(t *testing.T) {
	fake := &fakeVerifier{}
	flow := NewFlow(fake, "jo@example.com")

	require.NoError(t, flow.Submit(context.Background(), "123456"))
	assert.Equal(t, StateVerified, flow.State())
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestFlowSurfacesServerDetail(t *testing.T) {
	fake := &fakeVerifier{err: &api.APIError{StatusCode: 400, Detail: "code expired"}}
	flow := NewFlow(fake, "jo@example.com")

	err := flow.Submit(context.Background(), "000000")
	require.Error(t, err)
	assert.Equal(t, "code expired", err.Error(), "server detail is surfaced verbatim")
	assert.Equal(t, StateAwaitingCode, flow.State(), "rejection returns the flow to awaiting a code")

	// Retry with a new code is allowed; no retry cap in this layer.
	fake.err = nil
	require.NoError(t, flow.Submit(context.Background(), "654321"))
	assert.Equal(t, StateVerified, flow.State())
	assert.Equal(t, int32(2), fake.calls.Load())
}

func TestFlowGenericRejection(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name:    "rejection without detail maps to the generic message",
			err:     &api.APIError{StatusCode: 400},
			wantErr: ErrInvalidCode,
		},
		{
			name:    "transport failure maps to the generic message",
			err:     errors.New("connection refused"),
			wantErr: ErrInvalidCode,
		},
		{
			name:    "timeout keeps its kind",
			err:     api.ErrTimeout,
			wantErr: api.ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := NewFlow(&fakeVerifier{err: tt.err}, "jo@example.com")

			err := flow.Submit(context.Background(), "000000")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, StateAwaitingCode, flow.State())
		})
	}
}
