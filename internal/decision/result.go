package decision

// Result is the tagged outcome of parsing reasoner text: either Parsed with a
// value or Malformed with a reason.
type Result[T any] struct {
	value  T
	reason string
	ok     bool
}

// Parsed wraps a successfully parsed value.
func Parsed[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Malformed records why reasoner text could not be used.
func Malformed[T any](reason string) Result[T] {
	return Result[T]{reason: reason}
}

// Value returns the parsed value and whether parsing succeeded.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Reason returns the malformation reason, or "" for a parsed result.
func (r Result[T]) Reason() string {
	return r.reason
}
