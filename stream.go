package streamshape

import (
	"context"
	"errors"
	"io"
	"iter"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saikethan27/StreamShape/internal/scan"
)

// Stream is the lazy sequence of Records produced from one fragment source.
// It is single-pass and single-goroutine: the only suspension point is the
// source pull inside Next. Once the summary record has been returned, Next
// reports io.EOF; after a structural or source failure, Next keeps returning
// that failure.
type Stream[T any] struct {
	src       FragmentSource
	validator Validator[T]
	opt       StreamOpt
	log       logrus.FieldLogger

	state *scan.State
	queue []scan.Element
	idx   int
	total int64

	usage  Usage
	raw    []string
	done   bool
	termed error
	closed bool
}

// Open starts a stream over src, validating each completed element with v.
// The returned Stream owns src: it closes it at normal termination, on
// failure, and on Close.
func Open[T any](src FragmentSource, v Validator[T], opts ...StreamOpt) *Stream[T] {
	var opt StreamOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	s := &Stream[T]{src: src, validator: v, opt: opt, state: scan.New()}
	if opt.Logger != nil {
		s.log = opt.Logger.WithField("stream_id", uuid.NewString())
		s.log.Debug("stream opened")
	}
	return s
}

// Next returns the next result unit. It blocks on the source's next-fragment
// call and yields every element whose boundary closed within the pulled
// fragment before pulling again. The terminal summary record is followed by
// io.EOF on subsequent calls.
func (s *Stream[T]) Next(ctx context.Context) (Record[T], error) {
	var zero Record[T]
	if s.termed != nil {
		return zero, s.termed
	}
	if s.done {
		return zero, io.EOF
	}
	for {
		if err := ctx.Err(); err != nil {
			return zero, s.fail(Issues{{Path: "/", Code: CodeCanceled, Message: err.Error(), Cause: err, Offset: -1}})
		}

		if len(s.queue) > 0 {
			el := s.queue[0]
			s.queue = s.queue[1:]
			rec := Record[T]{Index: s.idx}
			s.idx++
			v, verr := s.validator.Validate(ctx, el.Raw)
			if verr != nil {
				rebased := rebaseIssues(rec.Index, verr)
				if s.opt.FailFast {
					return zero, s.fail(rebased)
				}
				if s.log != nil {
					s.log.WithField("index", rec.Index).WithError(rebased).Debug("element rejected")
				}
				rec.Err = rebased
			} else {
				rec.Element = &v
			}
			return rec, nil
		}

		frag, err := s.src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				if ferr := s.state.Finish(); ferr != nil {
					return zero, s.fail(scanIssues(ferr))
				}
				s.done = true
				_ = s.Close()
				rec := Record[T]{Index: -1, Finished: true, Usage: s.usage, Raw: s.raw}
				s.raw = nil
				return rec, nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return zero, s.fail(Issues{{Path: "/", Code: CodeCanceled, Message: err.Error(), Cause: err, Offset: -1}})
			}
			return zero, s.fail(Issues{{Path: "/", Code: CodeSourceError, Message: err.Error(), Cause: err, Offset: -1}})
		}

		if frag.Usage != nil {
			s.usage = *frag.Usage
		}
		if frag.Text == "" {
			continue
		}
		if s.opt.RetainRaw {
			s.raw = append(s.raw, frag.Text)
		}
		s.total += int64(len(frag.Text))
		if s.opt.MaxBytes > 0 && s.total > s.opt.MaxBytes {
			return zero, s.fail(Issues{{Path: "/", Code: CodeTruncated, Message: "max bytes exceeded", Offset: s.total}})
		}
		els, serr := s.state.Feed(frag.Text)
		if serr != nil {
			// Unmatched closer is fatal: queued elements are dropped and the
			// stream ends with the structural error, no summary record.
			s.queue = nil
			return zero, s.fail(scanIssues(serr))
		}
		s.queue = append(s.queue, els...)
	}
}

// Collect drains the stream. It returns every successfully validated element
// in order plus the terminal usage. Element validation failures are gathered
// into a single Issues error; structural and source failures are returned
// as-is.
func (s *Stream[T]) Collect(ctx context.Context) ([]T, Usage, error) {
	var out []T
	var iss Issues
	for {
		rec, err := s.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return out, s.usage, err
		}
		if rec.Finished {
			break
		}
		if rec.Err != nil {
			if i2, ok := AsIssues(rec.Err); ok {
				iss = AppendIssues(iss, i2...)
			} else {
				iss = AppendIssues(iss, Issue{Path: "/" + strconv.Itoa(rec.Index), Code: CodeParseError, Message: rec.Err.Error(), Cause: rec.Err, Offset: -1})
			}
			continue
		}
		out = append(out, *rec.Element)
	}
	if len(iss) > 0 {
		return out, s.usage, iss
	}
	return out, s.usage, nil
}

// Seq exposes the stream as a range-over-func sequence. Iteration stops at
// the summary record (yielded last) or at the first terminal error.
func (s *Stream[T]) Seq(ctx context.Context) iter.Seq2[Record[T], error] {
	return func(yield func(Record[T], error) bool) {
		for {
			rec, err := s.Next(ctx)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield(Record[T]{}, err)
				}
				return
			}
			if !yield(rec, nil) {
				_ = s.Close()
				return
			}
			if rec.Finished {
				return
			}
		}
	}
}

// Close releases the underlying source. Safe to call more than once and
// after termination.
func (s *Stream[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.src.Close()
	if s.log != nil {
		s.log.WithField("elements", s.idx).Debug("stream closed")
	}
	return err
}

func (s *Stream[T]) fail(iss Issues) error {
	s.termed = iss
	s.closeSource()
	return iss
}

func (s *Stream[T]) closeSource() {
	if err := s.Close(); err != nil && s.log != nil {
		s.log.WithError(err).Debug("source close failed")
	}
}

// scanIssues maps a scanner failure onto the public issue model.
func scanIssues(err error) Issues {
	var se scan.Error
	if errors.As(err, &se) {
		return Issues{{Path: "/", Code: se.Code, Message: se.Message, Offset: se.Offset}}
	}
	return toIssues(err)
}

// rebaseIssues prefixes child issue paths with the element index, mirroring
// how array element failures are addressed: /2/price.
func rebaseIssues(idx int, err error) Issues {
	base := "/" + strconv.Itoa(idx)
	i2, ok := AsIssues(err)
	if !ok {
		return Issues{{Path: base, Code: CodeParseError, Message: err.Error(), Cause: err, Offset: -1}}
	}
	out := make(Issues, 0, len(i2))
	for _, it := range i2 {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		out = append(out, Issue{Path: p, Code: it.Code, Message: it.Message, Hint: it.Hint, Cause: it.Cause, Offset: it.Offset})
	}
	return out
}
