// Package otp drives the one-time-code verification exchange. The flow is a
// small state machine: AwaitingCode → Verifying → {Verified, Rejected}.
// A rejection returns the flow to AwaitingCode so the user can retry with a
// new code; retry limits, if any, are the backend's policy.
package otp

import (
	"context"
	"errors"
	"time"

	"github.com/idcscan/idcscan/internal/api"
)

// State is the flow's current position in the verification exchange.
type State string

const (
	StateAwaitingCode State = "awaiting_code"
	StateVerifying    State = "verifying"
	StateVerified     State = "verified"
	StateRejected     State = "rejected"
)

// SuccessPause is the fixed delay between showing the success indicator and
// moving the user on to analysis. It is a deliberate UX pause, not a
// network wait.
const SuccessPause = 1500 * time.Millisecond

var (
	// ErrEmptyCode: submission refused locally, no network call made.
	ErrEmptyCode = errors.New("enter the verification code")

	// ErrVerifyInFlight: a verification call is already running.
	ErrVerifyInFlight = errors.New("verification already in progress")

	// ErrInvalidCode is the generic rejection used when the server does not
	// provide a detail message.
	ErrInvalidCode = errors.New("invalid OTP, please try again")
)

// Verifier is the single backend operation the flow needs.
// *api.Client satisfies it.
type Verifier interface {
	VerifyOTP(ctx context.Context, email, otp string) error
}

// Flow verifies one email address. It is not safe for concurrent use from
// multiple goroutines; the in-flight gate protects against re-entry from
// the same control, mirroring a disabled submit button.
type Flow struct {
	verifier Verifier
	email    string
	state    State
}

// NewFlow starts a verification flow for the given target email. The email
// may be empty (identity unknown); the flow still runs and the display
// layer shows a placeholder identity.
func NewFlow(verifier Verifier, email string) *Flow {
	return &Flow{verifier: verifier, email: email, state: StateAwaitingCode}
}

// Email returns the target address, which may be empty.
func (f *Flow) Email() string { return f.email }

// State returns the flow's current state.
func (f *Flow) State() State { return f.state }

// Submit exchanges the code for verified status. Exactly one verification
// call is issued per successful gate entry.
//
// On rejection the server's detail message is returned verbatim when
// present, otherwise ErrInvalidCode; either way the flow returns to
// AwaitingCode and a retry with a new code is allowed.
func (f *Flow) Submit(ctx context.Context, code string) error {
	if code == "" {
		return ErrEmptyCode
	}
	if f.state == StateVerifying {
		return ErrVerifyInFlight
	}

	f.state = StateVerifying
	err := f.verifier.VerifyOTP(ctx, f.email, code)
	if err == nil {
		f.state = StateVerified
		return nil
	}

	// Rejected is transient: by the time Submit returns the flow is back in
	// AwaitingCode, so the next code can be tried immediately.
	f.state = StateRejected
	defer func() { f.state = StateAwaitingCode }()

	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr
	}
	if errors.Is(err, api.ErrTimeout) {
		return err
	}
	return ErrInvalidCode
}
