package shape_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	streamshape "github.com/saikethan27/StreamShape"
	"github.com/saikethan27/StreamShape/shape"
)

func TestFromYAML(t *testing.T) {
	ctx := context.Background()
	doc := []byte(`
unknown: strip
fields:
  a: {type: integer, required: true}
  b: {type: string}
  unit: {type: string, default: ms}
`)
	s, err := shape.FromYAML(doc)
	require.NoError(t, err)

	m, err := s.Validate(ctx, []byte(`{"a":1,"extra":true}`))
	require.NoError(t, err)
	require.Equal(t, int64(1), m["a"])
	require.Equal(t, "ms", m["unit"])
	require.NotContains(t, m, "extra")

	_, err = s.Validate(ctx, []byte(`{"b":"x"}`))
	iss, ok := streamshape.AsIssues(err)
	require.True(t, ok)
	require.Equal(t, streamshape.CodeRequired, iss[0].Code)
	require.Equal(t, "/a", iss[0].Path)
}

func TestFromYAML_BadDescriptor(t *testing.T) {
	_, err := shape.FromYAML([]byte(`fields: {}`))
	require.Error(t, err)

	_, err = shape.FromYAML([]byte("fields:\n  a: {type: frobnicate}\n"))
	require.Error(t, err)

	_, err = shape.FromYAML([]byte("unknown: sometimes\nfields:\n  a: {type: string}\n"))
	require.Error(t, err)
}
