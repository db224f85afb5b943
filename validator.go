package streamshape

import "context"

// Validator decodes one complete JSON element and validates it against a
// target record shape. Implementations return the typed value or an error
// describing which field/constraint failed (ideally Issues).
//
// The shape subpackage provides a descriptor-based implementation; any other
// mechanism (generated code, reflection) can be plugged in here.
type Validator[T any] interface {
	Validate(ctx context.Context, raw []byte) (T, error)
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc[T any] func(ctx context.Context, raw []byte) (T, error)

func (f ValidatorFunc[T]) Validate(ctx context.Context, raw []byte) (T, error) { return f(ctx, raw) }
