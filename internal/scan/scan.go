// Package scan implements the incremental JSON array scanner: it classifies
// each byte's effect on nesting depth and string state, detects where a
// complete top-level array element closes, and slices the element text out of
// the accumulated buffer without ever re-scanning consumed input.
package scan

import "fmt"

// Error is a lightweight structural failure carrying a code and the byte
// offset at which scanning stopped. The root package maps it onto its public
// issue model.
type Error struct {
	Code    string // "unbalanced" or "truncated"
	Offset  int64
	Message string
}

func (e Error) Error() string { return e.Message }

const (
	codeUnbalanced = "unbalanced"
	codeTruncated  = "truncated"
)

// Element is one completed top-level array element: its byte span in the
// accumulated stream text and the exact source slice, separators trimmed.
type Element struct {
	Start int
	End   int // one past the closing brace
	Raw   []byte
}

// State holds the scanner position between fragments. The buffer is
// append-only; bytes up to scanned have been classified exactly once and
// bytes up to watermark have been handed out as elements.
type State struct {
	buf       []byte
	stack     []byte // open container kinds; len(stack) is the nesting depth
	inString  bool
	escape    bool
	started   bool // outer '[' seen
	done      bool // outer ']' seen
	scanned   int
	watermark int
	emitted   int
}

// New returns an empty scanner state.
func New() *State { return &State{} }

// Emitted reports how many elements have been produced so far.
func (s *State) Emitted() int { return s.emitted }

// Len reports the total accumulated text length in bytes.
func (s *State) Len() int { return len(s.buf) }

// Feed appends one fragment and scans only the newly appended span,
// returning the elements whose closing brace arrived within it. A closing
// character with no matching opener fails immediately; the stream cannot
// recover from it.
func (s *State) Feed(fragment string) ([]Element, error) {
	if fragment == "" {
		return nil, nil
	}
	s.buf = append(s.buf, fragment...)

	var out []Element
	for ; s.scanned < len(s.buf); s.scanned++ {
		c := s.buf[s.scanned]

		if !s.started {
			// Everything ahead of the outer '[' is preamble, not JSON.
			if c == '[' {
				s.started = true
				s.stack = append(s.stack, '[')
				s.watermark = s.scanned + 1
			}
			continue
		}
		if s.done {
			// Trailing text after the array closed is ignored.
			continue
		}

		if s.escape {
			s.escape = false
			continue
		}
		if s.inString {
			switch c {
			case '\\':
				s.escape = true
			case '"':
				s.inString = false
			}
			continue
		}
		switch c {
		case '"':
			s.inString = true
		case '{', '[':
			s.stack = append(s.stack, c)
		case '}', ']':
			if n := len(s.stack); n == 0 || !closes(c, s.stack[n-1]) {
				return out, Error{
					Code:    codeUnbalanced,
					Offset:  int64(s.scanned),
					Message: fmt.Sprintf("unmatched %q at offset %d", c, s.scanned),
				}
			}
			s.stack = s.stack[:len(s.stack)-1]
			if len(s.stack) == 1 && c == '}' {
				out = append(out, s.extract(s.scanned))
			}
			if len(s.stack) == 0 {
				s.done = true
				s.watermark = s.scanned + 1
			}
		}
	}
	return out, nil
}

// extract slices buf[watermark..end] for the element closing at end, trims
// leading separators, and advances the watermark past it. Each byte lands in
// exactly one element or is separator text.
func (s *State) extract(end int) Element {
	raw := s.buf[s.watermark : end+1]
	start := s.watermark
	for len(raw) > 0 {
		switch raw[0] {
		case ' ', '\t', '\n', '\r', ',':
			raw = raw[1:]
			start++
		default:
			s.watermark = end + 1
			s.emitted++
			return Element{Start: start, End: end + 1, Raw: raw}
		}
	}
	// Unreachable for well-formed boundaries: the closing brace itself is
	// never separator text.
	s.watermark = end + 1
	return Element{Start: start, End: end + 1}
}

// Finish reports whether the stream may end here. A started but unclosed
// array (or an element cut off mid-object) is a structural failure; a stream
// that never started an array finishes cleanly with zero elements.
func (s *State) Finish() error {
	if s.started && !s.done {
		return Error{
			Code:    codeTruncated,
			Offset:  int64(len(s.buf)),
			Message: fmt.Sprintf("stream ended with %d container(s) still open", len(s.stack)),
		}
	}
	return nil
}

func closes(c, opener byte) bool {
	return (c == '}' && opener == '{') || (c == ']' && opener == '[')
}
