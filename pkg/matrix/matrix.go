// Package matrix provides the dense row-major matrix passed between scoring
// stages. Zero-sized dimensions are allowed so that degenerate shapes reach
// the component that is able to reject them.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dense is a row-major matrix of float64 values.
type Dense struct {
	rows int
	cols int
	data []float64
}

// Dense satisfies gonum's read-only matrix interface.
var _ mat.Matrix = (*Dense)(nil)

// New creates a rows x cols matrix backed by data. A nil data slice allocates
// a zeroed backing store; otherwise len(data) must equal rows*cols and the
// slice is used directly.
func New(rows, cols int, data []float64) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrShape, rows, cols)
	}
	if data == nil {
		data = make([]float64, rows*cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d needs %d values, got %d", ErrShape, rows, cols, rows*cols, len(data))
	}
	return &Dense{rows: rows, cols: cols, data: data}, nil
}

// FromRows copies a slice of equally sized rows into a new matrix.
// An empty input yields a 0x0 matrix.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return &Dense{}, nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRagged, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return &Dense{rows: len(rows), cols: cols, data: data}, nil
}

// FromMatrix copies any gonum matrix into a new Dense.
func FromMatrix(m mat.Matrix) *Dense {
	r, c := m.Dims()
	d := &Dense{rows: r, cols: c, data: make([]float64, r*c)}
	if rm, ok := m.(mat.RawMatrixer); ok {
		raw := rm.RawMatrix()
		for i := 0; i < r; i++ {
			copy(d.data[i*c:(i+1)*c], raw.Data[i*raw.Stride:i*raw.Stride+c])
		}
		return d
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d.data[i*c+j] = m.At(i, j)
		}
	}
	return d
}

// Dims returns the number of rows and columns.
func (d *Dense) Dims() (r, c int) { return d.rows, d.cols }

// Rows returns the number of rows.
func (d *Dense) Rows() int { return d.rows }

// Cols returns the number of columns.
func (d *Dense) Cols() int { return d.cols }

// At returns the element at row i, column j.
func (d *Dense) At(i, j int) float64 {
	if uint(i) >= uint(d.rows) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(d.cols) {
		panic(mat.ErrColAccess)
	}
	return d.data[i*d.cols+j]
}

// Set stores v at row i, column j.
func (d *Dense) Set(i, j int, v float64) {
	if uint(i) >= uint(d.rows) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(d.cols) {
		panic(mat.ErrColAccess)
	}
	d.data[i*d.cols+j] = v
}

// T returns the implicit transpose.
func (d *Dense) T() mat.Matrix { return mat.Transpose{Matrix: d} }

// RawData returns the backing slice. Callers must not retain it across
// mutations of the matrix.
func (d *Dense) RawData() []float64 { return d.data }

// RawRow returns row i as a view into the backing slice.
func (d *Dense) RawRow(i int) []float64 {
	if uint(i) >= uint(d.rows) {
		panic(mat.ErrRowAccess)
	}
	return d.data[i*d.cols : (i+1)*d.cols : (i+1)*d.cols]
}

// CopyRow copies row i into dst, allocating when dst is too short, and
// returns the filled slice.
func (d *Dense) CopyRow(i int, dst []float64) []float64 {
	row := d.RawRow(i)
	if cap(dst) < len(row) {
		dst = make([]float64, len(row))
	}
	dst = dst[:len(row)]
	copy(dst, row)
	return dst
}

// Vector returns a copy of the values of a single-column matrix.
func (d *Dense) Vector() ([]float64, error) {
	if d.cols != 1 && d.rows != 0 {
		return nil, fmt.Errorf("%w: %dx%d is not a column vector", ErrShape, d.rows, d.cols)
	}
	out := make([]float64, len(d.data))
	copy(out, d.data)
	return out, nil
}

// ToRows copies the matrix into a slice of rows.
func (d *Dense) ToRows() [][]float64 {
	out := make([][]float64, d.rows)
	for i := range out {
		out[i] = d.CopyRow(i, nil)
	}
	return out
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	data := make([]float64, len(d.data))
	copy(data, d.data)
	return &Dense{rows: d.rows, cols: d.cols, data: data}
}
