package streamshape

import (
	"context"
	"io"
)

// Fragment is one increment delivered by the upstream source. Text may be
// empty (keep-alive chunks); Usage is non-nil when the chunk carried a usage
// payload.
type Fragment struct {
	Text  string
	Usage *Usage
}

// FragmentSource abstracts over polymorphic upstream sources. Next returns
// io.EOF once the source is exhausted; any other error is a transport-level
// failure. Close releases the underlying handle and must be safe to call
// more than once.
type FragmentSource interface {
	Next(ctx context.Context) (Fragment, error)
	Close() error
}

// MemorySource replays in-memory fragments. It backs tests and the one-shot
// non-streaming fallback (a single fragment holding the whole array).
type MemorySource struct {
	frags  []string
	usage  *Usage
	i      int
	closed bool
}

// Fragments wraps a fixed fragment list as a FragmentSource.
func Fragments(frags ...string) *MemorySource { return &MemorySource{frags: frags} }

// SetUsage attaches a usage payload delivered with the final fragment.
func (m *MemorySource) SetUsage(u Usage) *MemorySource {
	m.usage = &u
	return m
}

func (m *MemorySource) Next(ctx context.Context) (Fragment, error) {
	if err := ctx.Err(); err != nil {
		return Fragment{}, err
	}
	if m.closed || m.i >= len(m.frags) {
		return Fragment{}, io.EOF
	}
	f := Fragment{Text: m.frags[m.i]}
	if m.i == len(m.frags)-1 {
		f.Usage = m.usage
	}
	m.i++
	return f, nil
}

func (m *MemorySource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close has been called; test hook for the
// cancellation contract.
func (m *MemorySource) Closed() bool { return m.closed }

const defaultReaderChunk = 32 * 1024

// readerSource chunks a plain io.ReadCloser into fragments.
type readerSource struct {
	r       io.ReadCloser
	buf     []byte
	done    bool
	pending error
}

// ReaderSource wraps r as a FragmentSource that yields chunks of at most
// chunkSize bytes. chunkSize <= 0 selects a reasonable default.
func ReaderSource(r io.ReadCloser, chunkSize int) FragmentSource {
	if chunkSize <= 0 {
		chunkSize = defaultReaderChunk
	}
	return &readerSource{r: r, buf: make([]byte, chunkSize)}
}

func (s *readerSource) Next(ctx context.Context) (Fragment, error) {
	if err := ctx.Err(); err != nil {
		return Fragment{}, err
	}
	if s.pending != nil {
		err := s.pending
		s.pending = nil
		return Fragment{}, err
	}
	if s.done {
		return Fragment{}, io.EOF
	}
	n, err := s.r.Read(s.buf)
	if n > 0 {
		// Deliver what we have; a trailing error surfaces on the next pull.
		switch err {
		case nil:
		case io.EOF:
			s.done = true
		default:
			s.pending = err
		}
		return Fragment{Text: string(s.buf[:n])}, nil
	}
	if err == io.EOF {
		s.done = true
		return Fragment{}, io.EOF
	}
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{}, nil
}

func (s *readerSource) Close() error { return s.r.Close() }
