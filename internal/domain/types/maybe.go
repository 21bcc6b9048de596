package types

// Maybe is an optional value with an explicit presence flag. Derived metrics
// coming from optional sources (wearables, custom sessions) are carried as
// Maybe values and resolved to a documented fallback at the aggregation
// boundary, not at call sites.
type Maybe[T any] struct {
	value   T
	present bool
}

// Some wraps a present value.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, present: true}
}

// None is the absent value.
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Present reports whether a value is set.
func (m Maybe[T]) Present() bool {
	return m.present
}

// Value returns the wrapped value and whether it is present.
func (m Maybe[T]) Value() (T, bool) {
	return m.value, m.present
}

// OrElse returns the wrapped value, or fallback when absent.
func (m Maybe[T]) OrElse(fallback T) T {
	if m.present {
		return m.value
	}
	return fallback
}
