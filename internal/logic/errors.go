package logic

import "errors"

// Sentinel errors returned by the analysis services. ErrInsufficientData is
// a recoverable outcome (not enough history to analyze), ErrNotFound means
// the caller passed an unknown identifier, ErrAlreadyVerified guards the
// create-once verification record.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyVerified  = errors.New("prediction already verified")
)
