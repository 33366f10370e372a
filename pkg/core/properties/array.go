package properties

// Array is a typed column of a Container.
type Array[V any] struct {
	label string
	def   V
	data  []V
}

// Name returns the property name.
func (a *Array[V]) Name() string { return a.label }

// Len returns the number of elements.
func (a *Array[V]) Len() int { return len(a.data) }

// At returns the element at index i.
func (a *Array[V]) At(i uint32) V { return a.data[i] }

// Set overwrites the element at index i.
func (a *Array[V]) Set(i uint32, v V) { a.data[i] = v }

// Ptr returns a pointer to the element at index i.
// The pointer is invalidated by the next growth of the owning Container.
func (a *Array[V]) Ptr(i uint32) *V { return &a.data[i] }

// Default returns the value assigned to new elements.
func (a *Array[V]) Default() V { return a.def }

func (a *Array[V]) name() string { return a.label }

func (a *Array[V]) resize(n int) {
	if n <= len(a.data) {
		clear(a.data[n:])
		a.data = a.data[:n]
		return
	}
	if n > cap(a.data) {
		grown := make([]V, len(a.data), max(n, 2*cap(a.data)))
		copy(grown, a.data)
		a.data = grown
	}
	for len(a.data) < n {
		a.data = append(a.data, a.def)
	}
}

func (a *Array[V]) clone() array {
	out := &Array[V]{
		label: a.label,
		def:   a.def,
		data:  make([]V, len(a.data), cap(a.data)),
	}
	copy(out.data, a.data)
	return out
}
