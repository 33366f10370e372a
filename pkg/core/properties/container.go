// Package properties provides a struct-of-arrays store for per-node attributes.
//
// A Container owns a set of named, typed arrays that all share the same length.
// Elements are addressed by a dense uint32 index; new indices are only ever
// appended, either one at a time (Emplace) or as a contiguous group
// (EmplaceGroup). Array handles stay valid across growth, element pointers
// obtained through Ptr do not.
package properties

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrPropertyExists is returned when adding a property whose name is already taken.
	ErrPropertyExists = errors.New("property already exists")
	// ErrPropertyNotFound is returned when a property does not exist.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrPropertyType is returned when a property exists with a different element type.
	ErrPropertyType = errors.New("property type mismatch")
)

// array is the type-erased view of an Array used by the Container to keep
// every array in lockstep.
type array interface {
	resize(n int)
	clone() array
	name() string
}

// Container holds named arrays of equal length.
type Container struct {
	size   int
	arrays map[string]array
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{
		arrays: make(map[string]array),
	}
}

// Len returns the number of elements of every array.
func (c *Container) Len() int { return c.size }

// Emplace appends a single element to every array and returns its index.
func (c *Container) Emplace() uint32 {
	return c.EmplaceGroup(1)
}

// EmplaceGroup appends n contiguous elements to every array and returns the
// index of the first one. New elements hold each array's default value.
func (c *Container) EmplaceGroup(n int) uint32 {
	first := c.size
	c.size += n
	for _, a := range c.arrays {
		a.resize(c.size)
	}
	return uint32(first)
}

// Reset drops every element but keeps the registered arrays.
func (c *Container) Reset() {
	c.size = 0
	for _, a := range c.arrays {
		a.resize(0)
	}
}

// Clone returns a deep copy of the container. Element values are copied by
// assignment, so reference types inside elements are shared.
func (c *Container) Clone() *Container {
	out := &Container{
		size:   c.size,
		arrays: make(map[string]array, len(c.arrays)),
	}
	for name, a := range c.arrays {
		out.arrays[name] = a.clone()
	}
	return out
}

// Remove deletes the named array. It reports whether the array existed.
func (c *Container) Remove(name string) bool {
	if _, ok := c.arrays[name]; !ok {
		return false
	}
	delete(c.arrays, name)
	return true
}

// Names returns the registered property names in sorted order.
func (c *Container) Names() []string {
	names := make([]string, 0, len(c.arrays))
	for name := range c.arrays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add registers a new array of element type V. Existing elements are filled
// with def.
func Add[V any](c *Container, name string, def V) (*Array[V], error) {
	if _, ok := c.arrays[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrPropertyExists, name)
	}
	a := &Array[V]{label: name, def: def}
	a.resize(c.size)
	c.arrays[name] = a
	return a, nil
}

// Get returns the array registered under name.
func Get[V any](c *Container, name string) (*Array[V], error) {
	raw, ok := c.arrays[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPropertyNotFound, name)
	}
	a, ok := raw.(*Array[V])
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T", ErrPropertyType, name, raw)
	}
	return a, nil
}

// GetOrAdd returns the named array, creating it with def when missing. The
// boolean is true when the array was created. It panics if the name is
// already used by an array of a different element type.
func GetOrAdd[V any](c *Container, name string, def V) (*Array[V], bool) {
	if _, ok := c.arrays[name]; ok {
		a, err := Get[V](c, name)
		if err != nil {
			panic(err)
		}
		return a, false
	}
	a, _ := Add(c, name, def)
	return a, true
}
