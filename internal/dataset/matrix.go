package dataset

import (
	"fmt"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
)

// Matrix returns the partition features as a dense row-major matrix in column
// order of X. String columns are rejected.
func (p *Partition) Matrix() (*mat.Dense, error) {
	rows, cols := p.X.Dims()
	if rows == 0 || cols == 0 {
		return nil, ErrEmptyPartition
	}

	data := make([]float64, rows*cols)
	for j, name := range p.X.Names() {
		col := p.X.Col(name)
		if col.Type() == series.String {
			return nil, fmt.Errorf("column %q: %w", name, ErrNonNumeric)
		}
		for i, v := range col.Float() {
			data[i*cols+j] = v
		}
	}
	return mat.NewDense(rows, cols, data), nil
}

// Labels returns the partition labels as a column vector.
func (p *Partition) Labels() (*mat.VecDense, error) {
	if len(p.Y) == 0 {
		return nil, ErrEmptyPartition
	}
	return mat.NewVecDense(len(p.Y), append([]float64(nil), p.Y...)), nil
}
