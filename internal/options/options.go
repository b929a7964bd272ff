// Package options provides the generic functional-option plumbing used by the
// configurable types in this module.
package options

// Option configures a target of type T and may reject the configuration.
type Option[T any] interface {
	apply(T) error
}

// fn adapts a plain function to the Option interface.
type fn[T any] struct {
	f func(T) error
}

func (o *fn[T]) apply(target T) error {
	return o.f(target)
}

// New creates an option from a function that can fail validation.
func New[T any](f func(T) error) Option[T] {
	return &fn[T]{f: f}
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](f func(T)) Option[T] {
	return &fn[T]{f: func(target T) error {
		f(target)
		return nil
	}}
}

// Apply applies opts to target in order, stopping at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
