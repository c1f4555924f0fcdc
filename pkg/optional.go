package flhash

import "fmt"

// Optional holds a value that may be undefined. Hashers use it to tell "no
// hash computable" apart from any valid code.
type Optional[T any] struct {
	value   T
	defined bool
}

// NewOptional returns a value that is defined only when defined is true.
func NewOptional[T any](value T, defined bool) Optional[T] {
	return Optional[T]{
		value:   value,
		defined: defined,
	}
}

// NewDefined returns a defined value.
func NewDefined[T any](value T) Optional[T] {
	return Optional[T]{
		value:   value,
		defined: true,
	}
}

// NewUndefined returns an empty Optional.
func NewUndefined[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and panics when it is undefined.
func (o Optional[T]) Get() T {
	if !o.defined {
		panic("Optional value is not defined")
	}
	return o.value
}

func (o Optional[T]) IsDefined() bool {
	return o.defined
}

func (o Optional[T]) GetOrDefault(defaultValue T) T {
	if !o.defined {
		return defaultValue
	}
	return o.value
}

// Unpack returns the value and whether it is defined.
func (o Optional[T]) Unpack() (T, bool) {
	return o.value, o.defined
}

func (o Optional[T]) String() string {
	if !o.defined {
		return "null"
	}
	return fmt.Sprintf("%v", o.value)
}
