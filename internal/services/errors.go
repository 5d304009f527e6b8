package services

import "errors"

var (
	// ErrNoPredictions is returned when a score request carries no values.
	ErrNoPredictions = errors.New("no predictions to score")
	// ErrMixedScoreInput is returned when a score request names files and
	// carries inline values at the same time.
	ErrMixedScoreInput = errors.New("score request mixes files and inline values")
)
