package dataset

import "errors"

var (
	ErrInvalidMode       = errors.New("invalid dataset selection mode")
	ErrMissingColumn     = errors.New("missing required column")
	ErrNoSubmissionIndex = errors.New("submission index required for test partition")
	ErrKeyNotFound       = errors.New("shop/item pair not in submission specification")
	ErrNotPermutation    = errors.New("submission ids do not form a permutation")
	ErrNonNumeric        = errors.New("non-numeric feature column")
	ErrEmptyPartition    = errors.New("empty partition")
)
