package domain

import "errors"

// Validation failures returned to callers. Handlers map these to HTTP statuses;
// services never wrap them in anything that would break errors.Is.
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient points balance")

	ErrSurveyNotFound      = errors.New("survey not found")
	ErrSurveyInactive      = errors.New("survey is not accepting responses")
	ErrSurveyExhausted     = errors.New("survey point pool or response limit exhausted")
	ErrAlreadyParticipated = errors.New("user already completed this survey")
	ErrIncompleteAnswers   = errors.New("all required questions must be answered")

	ErrProductNotFound   = errors.New("product not found")
	ErrProductInactive   = errors.New("product is not available")
	ErrInsufficientStock = errors.New("insufficient product stock")

	ErrBelowMinimum       = errors.New("points below minimum conversion threshold")
	ErrIneligibleTier     = errors.New("subscription tier does not allow cash conversion")
	ErrMonthlyCapExceeded = errors.New("monthly conversion limit exceeded")
	ErrInvalidTransition  = errors.New("invalid status transition")

	// ErrStorageConflict marks a transient concurrency collision. The whole
	// operation is retried a bounded number of times before it surfaces.
	ErrStorageConflict = errors.New("storage conflict, retry the operation")
)
