package dataset

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDowncast(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{0.1, 1.5, 1e-50}, series.Float, "price"),
		series.New([]int{1, math.MaxInt32 + 1, -3}, series.Int, "count"),
		series.New([]string{"a", "b", "c"}, series.String, "name"),
	)
	require.NoError(t, df.Err)

	out := Downcast(df)
	require.NoError(t, out.Err)

	assert.Equal(t, df.Names(), out.Names())

	prices := out.Col("price").Float()
	assert.Equal(t, float64(float32(0.1)), prices[0])
	assert.NotEqual(t, 0.1, prices[0])
	assert.Equal(t, 1.5, prices[1])
	assert.Equal(t, 0.0, prices[2])

	counts, err := out.Col("count").Int()
	require.NoError(t, err)
	assert.Equal(t, []int{1, math.MinInt32, -3}, counts)

	assert.Equal(t, []string{"a", "b", "c"}, out.Col("name").Records())

	// The input frame keeps full precision.
	assert.Equal(t, 0.1, df.Col("price").Float()[0])
}

func TestDowncast_PropagatesFrameError(t *testing.T) {
	df := dataframe.DataFrame{Err: ErrEmptyPartition}

	assert.ErrorIs(t, Downcast(df).Err, ErrEmptyPartition)
}
