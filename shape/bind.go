package shape

import (
	"context"

	json "github.com/goccy/go-json"

	streamshape "github.com/saikethan27/StreamShape"
)

// Of wraps a Shape into a typed Validator: the shape checks run first, then
// the raw element is bound onto T. Binding reuses the element's source text
// so struct tags on T stay authoritative for field mapping.
func Of[T any](s *Shape) streamshape.Validator[T] {
	return typed[T]{s: s}
}

type typed[T any] struct {
	s *Shape
}

func (t typed[T]) Validate(ctx context.Context, raw []byte) (T, error) {
	var zero T
	if _, err := t.s.Validate(ctx, raw); err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, streamshape.Issues{{Path: "/", Code: streamshape.CodeParseError, Message: err.Error(), Cause: err, Offset: -1}}
	}
	return v, nil
}
