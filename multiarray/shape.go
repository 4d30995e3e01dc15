package multiarray

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidShape is returned when a shape has no dimensions or a
// non-positive dimension.
var ErrInvalidShape = errors.New("multiarray: shape dimensions must be positive")

// ErrIndexOutOfRange is returned when a multi-dimensional or flat index does
// not address an element of the shape.
var ErrIndexOutOfRange = errors.New("multiarray: index out of range")

// Shape describes the dimensions of an N-dimensional array laid out
// row-major in a flat slice.
type Shape struct {
	dims      []int
	strides   []int
	size      int
	maxDigits int
}

// ScalarShape returns the shape of a single element (one dimension of
// extent 1). Its index label is empty by convention.
func ScalarShape() Shape {
	s, _ := NewShape(1)
	return s
}

// NewShape builds a Shape from the given dimensions.
// Returns ErrInvalidShape when dims is empty or any dimension is < 1.
func NewShape(dims ...int) (Shape, error) {
	if len(dims) == 0 {
		return Shape{}, ErrInvalidShape
	}

	size := 1
	maxDim := 0
	for _, d := range dims {
		if d < 1 {
			return Shape{}, ErrInvalidShape
		}
		size *= d
		if d > maxDim {
			maxDim = d
		}
	}

	// Row-major strides: stride of the last axis is 1.
	strides := make([]int, len(dims))
	strides[len(dims)-1] = 1
	for i := len(dims) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * dims[i+1]
	}

	return Shape{
		dims:      append([]int(nil), dims...),
		strides:   strides,
		size:      size,
		maxDigits: len(fmt.Sprintf("%d", maxDim)),
	}, nil
}

// Size returns the total number of elements.
func (s Shape) Size() int { return s.size }

// Dimensions returns a copy of the dimension extents.
func (s Shape) Dimensions() []int { return append([]int(nil), s.dims...) }

// NumberOfDimensions returns the number of axes.
func (s Shape) NumberOfDimensions() int { return len(s.dims) }

// IsScalar reports whether the shape holds exactly one element.
func (s Shape) IsScalar() bool { return s.size == 1 }

// FlatIndex maps a multi-dimensional index to its flat position.
// Returns ErrIndexOutOfRange when the index rank or any component is invalid.
func (s Shape) FlatIndex(indices ...int) (int, error) {
	if len(indices) != len(s.dims) {
		return 0, ErrIndexOutOfRange
	}
	flat := 0
	for i, idx := range indices {
		if idx < 0 || idx >= s.dims[i] {
			return 0, ErrIndexOutOfRange
		}
		flat += idx * s.strides[i]
	}
	return flat, nil
}

// MultiIndex maps a flat position back to its multi-dimensional index.
// Returns ErrIndexOutOfRange when flat does not address an element.
func (s Shape) MultiIndex(flat int) ([]int, error) {
	if flat < 0 || flat >= s.size {
		return nil, ErrIndexOutOfRange
	}
	out := make([]int, len(s.dims))
	remain := flat
	for i := range s.dims {
		out[i] = remain / s.strides[i]
		remain %= s.strides[i]
	}
	return out, nil
}

// IndexLabel renders the bracketed element suffix for a flat position, e.g.
// "[03]" or "[03, 12]". Scalar shapes yield the empty string so a scalar
// element shares its proxy's name verbatim.
func (s Shape) IndexLabel(flat int) string {
	if s.size == 1 {
		return ""
	}

	multi, err := s.MultiIndex(flat)
	if err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteByte('[')
	for i, idx := range multi {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%0*d", s.maxDigits, idx)
	}
	b.WriteByte(']')
	return b.String()
}
