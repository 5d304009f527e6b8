package dataset

import "iter"

// HoldOut is a cross-validation scheme with a single, fixed split. It yields
// the train and test index sets it was built with exactly once.
type HoldOut struct {
	Train []int
	Test  []int
}

// NewHoldOut wraps a predefined train/test split.
func NewHoldOut(train, test []int) HoldOut {
	return HoldOut{Train: train, Test: test}
}

// HoldOutFor builds the split for train and val stacked in that order: the
// first train.Len() rows train, the following val.Len() rows test.
func HoldOutFor(train, val *Partition) HoldOut {
	n, m := train.Len(), val.Len()
	trainIdx := make([]int, n)
	for i := range trainIdx {
		trainIdx[i] = i
	}
	testIdx := make([]int, m)
	for i := range testIdx {
		testIdx[i] = n + i
	}
	return HoldOut{Train: trainIdx, Test: testIdx}
}

// NumSplits is always 1.
func (h HoldOut) NumSplits() int {
	return 1
}

// Split yields the single (train, test) pair.
func (h HoldOut) Split() iter.Seq2[[]int, []int] {
	return func(yield func([]int, []int) bool) {
		yield(h.Train, h.Test)
	}
}
