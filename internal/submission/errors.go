package submission

import "errors"

var (
	// ErrNoFiles is returned when an average is requested over zero files.
	ErrNoFiles = errors.New("no prediction files given")
	// ErrWeightMismatch is returned when the number of weights differs from
	// the number of files.
	ErrWeightMismatch = errors.New("number of weights does not match number of files")
	// ErrLengthMismatch is returned when prediction files differ in row count.
	ErrLengthMismatch = errors.New("prediction files differ in length")
	// ErrZeroWeightSum is returned when weight-sum normalisation would divide by zero.
	ErrZeroWeightSum = errors.New("weights sum to zero")
	// ErrInvalidNormalization is returned for an unknown normalisation name.
	ErrInvalidNormalization = errors.New("invalid normalization")
)
