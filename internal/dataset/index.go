package dataset

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	apperrors "salescli/internal/errors"
)

// ShopItem is the composite key shared by the feature set and test.csv.
type ShopItem struct {
	ShopID int
	ItemID int
}

func (k ShopItem) String() string {
	return fmt.Sprintf("%d_%d", k.ShopID, k.ItemID)
}

// SubmissionIndex maps a shop/item pair to its submission ID.
type SubmissionIndex map[ShopItem]int

// NewSubmissionIndex builds the index from a table with ID, shop_id and
// item_id columns. When a pair repeats, the last row wins.
func NewSubmissionIndex(spec dataframe.DataFrame) (SubmissionIndex, error) {
	if spec.Err != nil {
		return nil, apperrors.NewParsingError("submission specification is unusable", spec.Err)
	}
	if err := requireColumns(spec, ColSubmissionID, ColShopID, ColItemID); err != nil {
		return nil, err
	}
	ids, err := spec.Col(ColSubmissionID).Int()
	if err != nil {
		return nil, apperrors.NewParsingError("submission ID must be integral", err)
	}
	keys, err := ShopItems(spec)
	if err != nil {
		return nil, err
	}

	index := make(SubmissionIndex, len(keys))
	for i, k := range keys {
		index[k] = ids[i]
	}
	return index, nil
}

// Lookup returns the submission ID of k, failing with ErrKeyNotFound when
// the pair is absent.
func (idx SubmissionIndex) Lookup(k ShopItem) (int, error) {
	id, ok := idx[k]
	if !ok {
		return 0, apperrors.NewLookupError(fmt.Sprintf("shop_id=%d item_id=%d", k.ShopID, k.ItemID), ErrKeyNotFound).
			WithContext("key", k.String())
	}
	return id, nil
}

// ShopItems returns the shop/item pairs of df in row order.
func ShopItems(df dataframe.DataFrame) ([]ShopItem, error) {
	if err := requireColumns(df, ColShopID, ColItemID); err != nil {
		return nil, err
	}
	shops, err := df.Col(ColShopID).Int()
	if err != nil {
		return nil, apperrors.NewParsingError("shop_id must be integral", err)
	}
	items, err := df.Col(ColItemID).Int()
	if err != nil {
		return nil, apperrors.NewParsingError("item_id must be integral", err)
	}

	keys := make([]ShopItem, len(shops))
	for i := range shops {
		keys[i] = ShopItem{ShopID: shops[i], ItemID: items[i]}
	}
	return keys, nil
}

// Permutation relates test rows to submission IDs. Both slices are
// permutations of [0, n) and are inverse to each other.
type Permutation struct {
	TestToSubmission []int
	SubmissionToTest []int
}

// Len returns n.
func (p *Permutation) Len() int {
	return len(p.TestToSubmission)
}

// BuildPermutation looks up every key, in order, and inverts the result.
func BuildPermutation(keys []ShopItem, index SubmissionIndex) (*Permutation, error) {
	toSubmission := make([]int, len(keys))
	for i, k := range keys {
		id, err := index.Lookup(k)
		if err != nil {
			return nil, fmt.Errorf("test row %d: %w", i, err)
		}
		toSubmission[i] = id
	}

	toTest, err := Invert(toSubmission)
	if err != nil {
		return nil, err
	}
	return &Permutation{TestToSubmission: toSubmission, SubmissionToTest: toTest}, nil
}

// Invert returns b with b[a[i]] = i. a must be a permutation of [0, len(a));
// an out-of-range or repeated value fails with ErrNotPermutation.
func Invert(a []int) ([]int, error) {
	n := len(a)
	b := make([]int, n)
	seen := make([]bool, n)
	for i, v := range a {
		if v < 0 || v >= n {
			return nil, apperrors.NewValidationError(fmt.Sprintf("id %d at row %d outside [0, %d)", v, i, n), ErrNotPermutation)
		}
		if seen[v] {
			return nil, apperrors.NewValidationError(fmt.Sprintf("id %d repeated at row %d", v, i), ErrNotPermutation)
		}
		seen[v] = true
		b[v] = i
	}
	return b, nil
}

// Reorder arranges values given in test-row order into submission-ID order.
func (p *Permutation) Reorder(values []float64) ([]float64, error) {
	if len(values) != p.Len() {
		return nil, fmt.Errorf("reorder %d values with a permutation of %d", len(values), p.Len())
	}
	out := make([]float64, len(values))
	for id, row := range p.SubmissionToTest {
		out[id] = values[row]
	}
	return out, nil
}
