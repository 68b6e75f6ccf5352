package filter

import (
	"bytes"
	"encoding/json"
)

// Option is a single-select filter value: either set to a value or unset.
type Option[T comparable] struct {
	value T
	set   bool
}

// Some returns a set option.
func Some[T comparable](v T) Option[T] {
	return Option[T]{value: v, set: true}
}

// None returns an unset option.
func None[T comparable]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is set.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the option holds a value.
func (o Option[T]) IsSet() bool {
	return o.set
}

// Matches reports whether the option is unset or equal to v.
func (o Option[T]) Matches(v T) bool {
	return !o.set || o.value == v
}

// Toggle selects v, or clears the option when v is already selected.
func (o Option[T]) Toggle(v T) Option[T] {
	if o.set && o.value == v {
		return None[T]()
	}
	return Some(v)
}

// MarshalJSON encodes an unset option as null.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as unset.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
