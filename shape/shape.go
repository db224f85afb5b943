// Package shape declares target record shapes and validates decoded JSON
// elements against them. It is the in-repo implementation of the
// streamshape.Validator contract; callers with generated code or their own
// reflection layer can bypass it entirely.
package shape

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"

	streamshape "github.com/saikethan27/StreamShape"
)

// Kind enumerates the field types a shape can require.
type Kind int

const (
	Any    Kind = iota
	String      // JSON string
	Bool        // JSON bool
	Int         // integral JSON number, widened to int64
	Number      // any JSON number, as float64
	Object      // nested object, fields unchecked
	Array       // nested array, elements unchecked
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Bool:
		return "bool"
	case Int:
		return "integer"
	case Number:
		return "number"
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return "any"
	}
}

// UnknownPolicy controls how keys outside the declared fields are handled.
type UnknownPolicy int

const (
	UnknownStrict UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                       // Drop unknown keys.
	UnknownKeep                        // Preserve unknown keys in the result.
)

type field struct {
	kind       Kind
	required   bool
	hasDefault bool
	def        any
}

type builder struct {
	fields  map[string]field
	unknown UnknownPolicy
	errs    []string
}

// New creates a shape builder with safe defaults (UnknownStrict).
func New() *builder {
	return &builder{fields: map[string]field{}, unknown: UnknownStrict}
}

// Field declares a field with its expected kind.
func (b *builder) Field(name string, k Kind) *builder {
	b.fields[name] = field{kind: k}
	return b
}

// Require marks one or more declared fields as required.
func (b *builder) Require(names ...string) *builder {
	for _, n := range names {
		f, ok := b.fields[n]
		if !ok {
			b.errs = append(b.errs, "require of undeclared field "+strconv.Quote(n))
			continue
		}
		f.required = true
		b.fields[n] = f
	}
	return b
}

// Default sets the value applied when an optional field is absent.
func (b *builder) Default(name string, v any) *builder {
	f, ok := b.fields[name]
	if !ok {
		b.errs = append(b.errs, "default for undeclared field "+strconv.Quote(name))
		return b
	}
	f.hasDefault = true
	f.def = v
	b.fields[name] = f
	return b
}

// UnknownStrict sets unknown policy to Strict.
func (b *builder) UnknownStrict() *builder {
	b.unknown = UnknownStrict
	return b
}

// UnknownStrip sets unknown policy to Strip.
func (b *builder) UnknownStrip() *builder {
	b.unknown = UnknownStrip
	return b
}

// UnknownKeep sets unknown policy to Keep.
func (b *builder) UnknownKeep() *builder {
	b.unknown = UnknownKeep
	return b
}

// Build finalizes the shape.
func (b *builder) Build() (*Shape, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("shape: %s", b.errs[0])
	}
	f := make(map[string]field, len(b.fields))
	for k, v := range b.fields {
		f[k] = v
	}
	return &Shape{fields: f, unknown: b.unknown}, nil
}

// MustBuild finalizes the shape and panics on builder misuse.
func (b *builder) MustBuild() *Shape {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Shape is an immutable target record shape. It implements
// streamshape.Validator[map[string]any].
type Shape struct {
	fields  map[string]field
	unknown UnknownPolicy
}

// Validate decodes raw as one JSON object and checks it against the shape,
// collecting every violation rather than stopping at the first.
func (s *Shape) Validate(ctx context.Context, raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, streamshape.Issues{{Path: "/", Code: streamshape.CodeParseError, Message: err.Error(), Cause: err, Offset: -1}}
	}

	out := make(map[string]any, len(m))
	var iss streamshape.Issues

	for name, f := range s.fields {
		v, ok := m[name]
		if !ok {
			if f.required {
				iss = streamshape.AppendIssues(iss, streamshape.Issue{
					Path: "/" + name, Code: streamshape.CodeRequired,
					Message: "required field missing", Offset: -1,
				})
			} else if f.hasDefault {
				out[name] = f.def
			}
			continue
		}
		cv, cerr := coerce(f.kind, v)
		if cerr != nil {
			iss = streamshape.AppendIssues(iss, streamshape.Issue{
				Path: "/" + name, Code: cerr.code, Message: cerr.msg,
				Hint: "expected " + f.kind.String(), Offset: -1,
			})
			continue
		}
		out[name] = cv
	}

	if s.unknown != UnknownStrip {
		// Deterministic issue order for unknown keys.
		var extras []string
		for k := range m {
			if _, ok := s.fields[k]; !ok {
				extras = append(extras, k)
			}
		}
		sort.Strings(extras)
		for _, k := range extras {
			if s.unknown == UnknownStrict {
				iss = streamshape.AppendIssues(iss, streamshape.Issue{
					Path: "/" + k, Code: streamshape.CodeUnknownKey,
					Message: "unknown key", Offset: -1,
				})
				continue
			}
			out[k] = m[k]
		}
	}

	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

type coerceError struct {
	code string
	msg  string
}

// coerce applies the shape's widening rules: integers accepted wherever a
// number is expected, and integral floats accepted as integers.
func coerce(k Kind, v any) (any, *coerceError) {
	switch k {
	case Any:
		return v, nil
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case Int:
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
			f, err := n.Float64()
			if err != nil || f >= math.MaxInt64 || f <= math.MinInt64 {
				return nil, &coerceError{code: streamshape.CodeOverflow, msg: "number out of int64 range"}
			}
			if f != math.Trunc(f) {
				return nil, &coerceError{code: streamshape.CodeInvalidType, msg: "number is not integral"}
			}
			return int64(f), nil
		}
	case Number:
		if n, ok := v.(json.Number); ok {
			f, err := n.Float64()
			if err != nil {
				return nil, &coerceError{code: streamshape.CodeOverflow, msg: "number out of float64 range"}
			}
			return f, nil
		}
	case Object:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
	case Array:
		if a, ok := v.([]any); ok {
			return a, nil
		}
	}
	return nil, &coerceError{code: streamshape.CodeInvalidType, msg: fmt.Sprintf("got %s", jsonTypeName(v))}
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "unknown"
	}
}
