// Package screening orchestrates analysis submission: it gates entry on a
// validated image candidate, serializes the symptom selection, issues the
// single inference call, and derives the composite verdict.
package screening

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/idcscan/idcscan/internal/api"
	"github.com/idcscan/idcscan/internal/imagecheck"
)

var (
	// ErrNoCandidate: submission attempted without a validated image.
	// No network call is made.
	ErrNoCandidate = errors.New("please select a valid 50x50px image file first")

	// ErrSubmitInFlight: a previous submission has not completed yet.
	ErrSubmitInFlight = errors.New("an analysis is already in progress")

	// ErrPredictionFailed: generic transport/server failure. The candidate
	// and symptom selection are preserved by the caller so retry needs no
	// re-selection.
	ErrPredictionFailed = errors.New("error in prediction process, please try again")
)

// Predictor is the single backend operation the controller needs.
// *api.Client satisfies it.
type Predictor interface {
	Predict(ctx context.Context, filePath, username, phone string, symptoms []string) (*api.PredictResponse, error)
}

// Controller submits validated candidates for inference. At most one
// submission is in flight at a time, enforced by the flag gate, not by
// server-side idempotency.
type Controller struct {
	predictor  Predictor
	submitting atomic.Bool
}

// NewController creates a submission controller over the given backend.
func NewController(p Predictor) *Controller {
	return &Controller{predictor: p}
}

// Submitting reports whether a submission is currently in flight.
func (c *Controller) Submitting() bool {
	return c.submitting.Load()
}

// Submit sends one inference request for the candidate and returns the
// outcome with its derived verdict.
//
// Preconditions: candidate must have passed imagecheck.Validate. A nil
// candidate is refused locally with ErrNoCandidate.
func (c *Controller) Submit(ctx context.Context, candidate *imagecheck.Candidate, symptoms Selection, username, phone string) (*Outcome, error) {
	if candidate == nil {
		return nil, ErrNoCandidate
	}

	if !c.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer c.submitting.Store(false)

	resp, err := c.predictor.Predict(ctx, candidate.Path, username, phone, symptoms)
	if err != nil {
		// Timeouts keep their distinct kind so the caller can say so;
		// everything else collapses to the generic retry message.
		if errors.Is(err, api.ErrTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}

	return &Outcome{
		Prediction: resp.Prediction,
		Confidence: resp.Confidence.String(),
		Report:     resp.Report,
		Verdict:    Verdict(resp.Prediction, len(symptoms) > 0),
		Symptoms:   symptoms,
	}, nil
}
