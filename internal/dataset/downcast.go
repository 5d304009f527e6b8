package dataset

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Downcast narrows every float column to float32 precision and every int
// column to the int32 range. Values outside int32 wrap around; the loss is
// accepted to halve the memory of large feature sets once they are handed to
// float32/int32 consumers.
func Downcast(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Err != nil {
		return df
	}
	out := df
	for _, name := range df.Names() {
		col := df.Col(name)
		switch col.Type() {
		case series.Float:
			vals := col.Float()
			for i, v := range vals {
				vals[i] = float64(float32(v))
			}
			out = out.Mutate(series.New(vals, series.Float, name))
		case series.Int:
			vals, err := col.Int()
			if err != nil {
				// NaN cells cannot be narrowed; leave the column alone.
				continue
			}
			for i, v := range vals {
				vals[i] = int(int32(v))
			}
			out = out.Mutate(series.New(vals, series.Int, name))
		}
	}
	return out
}
