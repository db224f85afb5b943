package streamshape

// Package streamshape provides:
//
// - Incremental extraction of complete JSON array elements from a live text stream
// - A stable error model via Issues (JSON Pointer, code, message)
// - Schema validation of each element through a pluggable Validator
// - A terminal usage summary aggregated from the upstream source
//
// Design policy:
// - Keep only public APIs in the root package; put the scanner under internal/.
// - Place the shape DSL under shape/, transport sources under source/, and the CLI under cmd/streamshape.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  v := shape.Of[Item](itemShape)
//  st := streamshape.Open(ctx, src, v)
//  defer st.Close()
//  for {
//      rec, err := st.Next(ctx)
//      if err == io.EOF { break }
//      ...
//  }
//
