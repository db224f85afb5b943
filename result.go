package streamshape

// Record is the unit yielded by a Stream: either one array element or the
// terminal summary. Exactly one summary record appears per stream, always
// last, with Element nil and Finished true.
type Record[T any] struct {
	// Element holds the validated value. Nil on the summary record and on
	// records whose validation failed.
	Element *T
	// Index is the element's ordinal position in the source array; -1 on the
	// summary record.
	Index int
	// Err carries the element's validation failure, if any. It never carries
	// structural or source failures; those terminate the stream instead.
	Err error
	// Usage is populated on the summary record only.
	Usage Usage
	// Finished marks the summary record.
	Finished bool
	// Raw lists every fragment pulled from the source, in order. Present on
	// the summary record only, and only when StreamOpt.RetainRaw is set.
	Raw []string
}
