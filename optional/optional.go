// Package optional provides the staging value type used by generated builders.
//
// A package whose structs are generated with buildergen declares
//
//	type Optional[T any] = optional.Optional[T]
//
// so that fields written as Optional[T] are recognized as optional and share
// their type with the builder's storage.
package optional

// Optional holds either a value of type T or nothing.
// The zero value is empty.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsSome reports whether o holds a value.
func (o Optional[T]) IsSome() bool {
	return o.ok
}

// IsNone reports whether o is empty.
func (o Optional[T]) IsNone() bool {
	return !o.ok
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// MustGet returns the held value and panics when o is empty.
func (o Optional[T]) MustGet() T {
	if !o.ok {
		panic("optional: MustGet on empty value")
	}
	return o.value
}

// OrZero returns the held value or the zero value of T.
func (o Optional[T]) OrZero() T {
	return o.value
}

// OrElse returns the held value or def.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}
