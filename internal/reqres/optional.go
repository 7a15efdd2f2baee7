package reqres

import (
	"bytes"
	"encoding/json"
)

type presence uint8

const (
	absent presence = iota
	null
	present
)

// Optional is a JSON field that is either absent, explicitly null, or holds
// a value. The zero value is absent. Pair it with the `omitzero` struct tag
// so absent fields are left out of encoded objects.
type Optional[T any] struct {
	value T
	state presence
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, state: present}
}

// Null returns an Optional that encodes as JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{state: null}
}

// Get returns the value and whether one is held.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.state == present
}

// OrElse returns the held value or fallback.
func (o Optional[T]) OrElse(fallback T) T {
	if o.state == present {
		return o.value
	}
	return fallback
}

// IsSet reports whether a value is held.
func (o Optional[T]) IsSet() bool { return o.state == present }

// IsNull reports whether the field was explicitly null.
func (o Optional[T]) IsNull() bool { return o.state == null }

// IsZero reports whether the field is absent. encoding/json consults it for
// `omitzero`.
func (o Optional[T]) IsZero() bool { return o.state == absent }

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.state != present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.value, o.state = zero, null
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value, o.state = v, present
	return nil
}
