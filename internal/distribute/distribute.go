// Package distribute forwards a generated report over two independent
// channels, email and WhatsApp. Each channel has its own in-flight flag and
// failure message; a shared status line reflects whichever channel
// completed most recently (last-writer-wins).
package distribute

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/idcscan/idcscan/internal/api"
)

// Local refusals and channel failure messages.
var (
	ErrEmptyEmail = errors.New("please enter an email address")
	ErrEmptyPhone = errors.New("please enter phone number with country code (e.g. +91XXXXXXXXXX)")

	// ErrChannelBusy: this channel already has a dispatch in flight. The
	// other channel is unaffected.
	ErrChannelBusy = errors.New("a send is already in progress on this channel")

	ErrEmailFailed    = errors.New("failed to send email, please try again")
	ErrWhatsAppFailed = errors.New("failed to send WhatsApp message, please try again")
)

// Sender is the backend surface the service dispatches through.
// *api.Client satisfies it.
type Sender interface {
	SendEmail(ctx context.Context, email, reportPath string) (string, error)
	SendWhatsApp(ctx context.Context, phone, reportPath string) (string, error)
}

// Service dispatches reports. The two channels never block or reset each
// other: an email dispatch and a WhatsApp dispatch may be in flight
// simultaneously and their completions interleave arbitrarily.
type Service struct {
	sender Sender

	emailSending    atomic.Bool
	whatsappSending atomic.Bool

	mu     sync.Mutex
	status string
}

// NewService creates a distribution service over the given backend.
func NewService(sender Sender) *Service {
	return &Service{sender: sender}
}

// Status returns the shared status line: the message from whichever channel
// completed most recently.
func (s *Service) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// EmailSending reports whether an email dispatch is in flight.
func (s *Service) EmailSending() bool { return s.emailSending.Load() }

// WhatsAppSending reports whether a WhatsApp dispatch is in flight.
func (s *Service) WhatsAppSending() bool { return s.whatsappSending.Load() }

// SendEmail forwards the report to the given address. An empty address is
// refused locally with no network call.
func (s *Service) SendEmail(ctx context.Context, email, reportPath string) (string, error) {
	if email == "" {
		s.setStatus(ErrEmptyEmail.Error())
		return "", ErrEmptyEmail
	}
	if !s.emailSending.CompareAndSwap(false, true) {
		return "", ErrChannelBusy
	}
	defer s.emailSending.Store(false)

	msg, err := s.sender.SendEmail(ctx, email, reportPath)
	if err != nil {
		s.setStatus(ErrEmailFailed.Error())
		if errors.Is(err, api.ErrTimeout) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrEmailFailed, err)
	}

	s.setStatus(msg)
	return msg, nil
}

// SendWhatsApp forwards the report to the given phone number. An empty
// number is refused locally with no network call. The country-code hint in
// the refusal is advisory text only; number format is not validated here.
func (s *Service) SendWhatsApp(ctx context.Context, phone, reportPath string) (string, error) {
	if phone == "" {
		s.setStatus(ErrEmptyPhone.Error())
		return "", ErrEmptyPhone
	}
	if !s.whatsappSending.CompareAndSwap(false, true) {
		return "", ErrChannelBusy
	}
	defer s.whatsappSending.Store(false)

	msg, err := s.sender.SendWhatsApp(ctx, phone, reportPath)
	if err != nil {
		s.setStatus(ErrWhatsAppFailed.Error())
		if errors.Is(err, api.ErrTimeout) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrWhatsAppFailed, err)
	}

	s.setStatus(msg)
	return msg, nil
}

func (s *Service) setStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}
