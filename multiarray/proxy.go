package multiarray

import "encoding/json"

// Proxy couples a Shape with a flat slice of values of type T and a stable
// numeric id. The model exports variable values, constraint violations,
// penalty coefficients and per-variable counters as proxies so that
// snapshots never alias live solver state.
type Proxy[T any] struct {
	id     int
	name   string
	shape  Shape
	values []T
}

// NewProxy allocates a proxy of the given shape with zero values.
func NewProxy[T any](id int, name string, shape Shape) *Proxy[T] {
	return &Proxy[T]{
		id:     id,
		name:   name,
		shape:  shape,
		values: make([]T, shape.Size()),
	}
}

// FilledProxy allocates a proxy of the given shape with every element set to
// the initial value.
func FilledProxy[T any](id int, name string, shape Shape, initial T) *Proxy[T] {
	p := NewProxy[T](id, name, shape)
	for i := range p.values {
		p.values[i] = initial
	}
	return p
}

// ID returns the proxy's stable numeric id.
func (p *Proxy[T]) ID() int { return p.id }

// Name returns the proxy's base name.
func (p *Proxy[T]) Name() string { return p.name }

// Shape returns the proxy's shape metadata.
func (p *Proxy[T]) Shape() Shape { return p.shape }

// Size returns the number of elements.
func (p *Proxy[T]) Size() int { return p.shape.Size() }

// Values returns the flat backing slice. Callers mutate elements in place;
// the slice itself is owned by the proxy and must not be resized.
func (p *Proxy[T]) Values() []T { return p.values }

// At returns the element at the flat position.
func (p *Proxy[T]) At(flat int) T { return p.values[flat] }

// Set stores a value at the flat position.
func (p *Proxy[T]) Set(flat int, v T) { p.values[flat] = v }

// AtIndex returns the element at a multi-dimensional index.
func (p *Proxy[T]) AtIndex(indices ...int) (T, error) {
	flat, err := p.shape.FlatIndex(indices...)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.values[flat], nil
}

// ElementName returns the full element name, the proxy name plus the index
// label ("x[03, 12]"); for scalar proxies it is the proxy name itself.
func (p *Proxy[T]) ElementName(flat int) string {
	return p.name + p.shape.IndexLabel(flat)
}

// Fill sets every element to v.
func (p *Proxy[T]) Fill(v T) {
	for i := range p.values {
		p.values[i] = v
	}
}

// Clone returns a deep copy sharing nothing with the receiver.
func (p *Proxy[T]) Clone() *Proxy[T] {
	c := &Proxy[T]{
		id:     p.id,
		name:   p.name,
		shape:  p.shape,
		values: make([]T, len(p.values)),
	}
	copy(c.values, p.values)
	return c
}

// proxyJSON is the wire form of a proxy.
type proxyJSON[T any] struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Shape  []int  `json:"shape"`
	Values []T    `json:"values"`
}

// MarshalJSON emits the proxy as {id, name, shape, values} with row-major
// flat values.
func (p *Proxy[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(proxyJSON[T]{
		ID:     p.id,
		Name:   p.name,
		Shape:  p.shape.Dimensions(),
		Values: p.values,
	})
}

// UnmarshalJSON restores a proxy from its wire form.
func (p *Proxy[T]) UnmarshalJSON(data []byte) error {
	var wire proxyJSON[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	shape, err := NewShape(wire.Shape...)
	if err != nil {
		return err
	}
	if len(wire.Values) != shape.Size() {
		return ErrIndexOutOfRange
	}
	p.id = wire.ID
	p.name = wire.Name
	p.shape = shape
	p.values = wire.Values
	return nil
}

// CloneAll deep-copies a slice of proxies.
func CloneAll[T any](proxies []*Proxy[T]) []*Proxy[T] {
	out := make([]*Proxy[T], len(proxies))
	for i, p := range proxies {
		out[i] = p.Clone()
	}
	return out
}
