package shape_test

import (
	"context"
	"testing"

	streamshape "github.com/saikethan27/StreamShape"
	"github.com/saikethan27/StreamShape/shape"
)

func TestShape_ValidateOK(t *testing.T) {
	ctx := context.Background()
	s := shape.New().
		Field("name", shape.String).
		Field("count", shape.Int).
		Field("score", shape.Number).
		Require("name").
		UnknownStrip().
		MustBuild()

	m, err := s.Validate(ctx, []byte(`{"name":"a","count":3,"score":1.5,"junk":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["name"] != "a" {
		t.Fatalf("name = %v", m["name"])
	}
	if m["count"] != int64(3) {
		t.Fatalf("count = %T %v", m["count"], m["count"])
	}
	if m["score"] != 1.5 {
		t.Fatalf("score = %v", m["score"])
	}
	if _, ok := m["junk"]; ok {
		t.Fatalf("unknown key not stripped")
	}
}

func TestShape_RequiredMissing(t *testing.T) {
	ctx := context.Background()
	s := shape.New().Field("a", shape.Int).Require("a").MustBuild()
	_, err := s.Validate(ctx, []byte(`{}`))
	iss, ok := streamshape.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Path != "/a" || iss[0].Code != streamshape.CodeRequired {
		t.Fatalf("issue = %+v", iss[0])
	}
}

func TestShape_InvalidType(t *testing.T) {
	ctx := context.Background()
	s := shape.New().Field("a", shape.Int).Require("a").MustBuild()
	_, err := s.Validate(ctx, []byte(`{"a":"nope"}`))
	iss, ok := streamshape.AsIssues(err)
	if !ok || iss[0].Path != "/a" || iss[0].Code != streamshape.CodeInvalidType {
		t.Fatalf("issue = %v", err)
	}
}

func TestShape_NumericWidening(t *testing.T) {
	ctx := context.Background()
	s := shape.New().
		Field("i", shape.Int).
		Field("n", shape.Number).
		MustBuild()

	// integral float accepted as integer, integer accepted as number
	m, err := s.Validate(ctx, []byte(`{"i":2.0,"n":7}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["i"] != int64(2) {
		t.Fatalf("i = %T %v", m["i"], m["i"])
	}
	if m["n"] != 7.0 {
		t.Fatalf("n = %T %v", m["n"], m["n"])
	}

	// fractional value where an integer is expected
	_, err = s.Validate(ctx, []byte(`{"i":2.5}`))
	iss, ok := streamshape.AsIssues(err)
	if !ok || iss[0].Code != streamshape.CodeInvalidType {
		t.Fatalf("want invalid_type, got %v", err)
	}
}

func TestShape_Defaults(t *testing.T) {
	ctx := context.Background()
	s := shape.New().
		Field("a", shape.Int).
		Field("unit", shape.String).
		Default("unit", "ms").
		MustBuild()
	m, err := s.Validate(ctx, []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["unit"] != "ms" {
		t.Fatalf("unit = %v", m["unit"])
	}
}

func TestShape_UnknownStrict(t *testing.T) {
	ctx := context.Background()
	s := shape.New().Field("a", shape.Int).MustBuild()
	_, err := s.Validate(ctx, []byte(`{"a":1,"z":true}`))
	iss, ok := streamshape.AsIssues(err)
	if !ok || iss[0].Path != "/z" || iss[0].Code != streamshape.CodeUnknownKey {
		t.Fatalf("issue = %v", err)
	}
}

func TestShape_UnknownKeep(t *testing.T) {
	ctx := context.Background()
	s := shape.New().Field("a", shape.Int).UnknownKeep().MustBuild()
	m, err := s.Validate(ctx, []byte(`{"a":1,"z":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["z"] != true {
		t.Fatalf("z = %v", m["z"])
	}
}

func TestShape_CollectsAllIssues(t *testing.T) {
	ctx := context.Background()
	s := shape.New().
		Field("a", shape.Int).
		Field("b", shape.String).
		Require("a", "b").
		MustBuild()
	_, err := s.Validate(ctx, []byte(`{"a":"x"}`))
	iss, ok := streamshape.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("want 2 issues, got %v", err)
	}
}

func TestShape_NotAnObject(t *testing.T) {
	ctx := context.Background()
	s := shape.New().Field("a", shape.Int).MustBuild()
	_, err := s.Validate(ctx, []byte(`[1,2]`))
	iss, ok := streamshape.AsIssues(err)
	if !ok || iss[0].Code != streamshape.CodeParseError {
		t.Fatalf("want parse_error, got %v", err)
	}
}

func TestShape_BuilderMisuse(t *testing.T) {
	_, err := shape.New().Field("a", shape.Int).Require("missing").Build()
	if err == nil {
		t.Fatalf("expected builder error")
	}
}

func TestOf_TypedBinding(t *testing.T) {
	ctx := context.Background()
	type rec struct {
		A int64  `json:"a"`
		B string `json:"b"`
	}
	s := shape.New().
		Field("a", shape.Int).
		Field("b", shape.String).
		Require("a", "b").
		UnknownStrip().
		MustBuild()
	v := shape.Of[rec](s)

	got, err := v.Validate(ctx, []byte(`{"a":9,"b":"ok"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.A != 9 || got.B != "ok" {
		t.Fatalf("got = %+v", got)
	}

	if _, err := v.Validate(ctx, []byte(`{"a":9}`)); err == nil {
		t.Fatalf("expected required failure")
	}
}
