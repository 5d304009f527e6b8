package dataset

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_Matrix(t *testing.T) {
	p := &Partition{
		X: dataframe.New(
			series.New([]int{21, 22}, series.Int, "date_block_num"),
			series.New([]float64{0.5, 1.5}, series.Float, "lag_1"),
		),
		Y: []float64{3, 4},
	}

	m, err := p.Matrix()
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, []float64{21, 0.5}, m.RawRowView(0))
	assert.Equal(t, []float64{22, 1.5}, m.RawRowView(1))

	y, err := p.Labels()
	require.NoError(t, err)
	assert.Equal(t, 2, y.Len())
	assert.Equal(t, 4.0, y.AtVec(1))

	// Labels are copied.
	y.SetVec(0, 99)
	assert.Equal(t, 3.0, p.Y[0])
}

func TestPartition_MatrixRejectsStrings(t *testing.T) {
	p := &Partition{
		X: dataframe.New(series.New([]string{"x"}, series.String, "shop_name")),
		Y: []float64{1},
	}

	_, err := p.Matrix()

	assert.ErrorIs(t, err, ErrNonNumeric)
	assert.Contains(t, err.Error(), "shop_name")
}

func TestPartition_MatrixEmpty(t *testing.T) {
	_, err := (&Partition{}).Matrix()
	assert.ErrorIs(t, err, ErrEmptyPartition)

	_, err = (&Partition{}).Labels()
	assert.ErrorIs(t, err, ErrEmptyPartition)
}
