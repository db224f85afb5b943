package streamshape

import (
	"github.com/sirupsen/logrus"
)

// StreamOpt bundles streaming options.
type StreamOpt struct {
	// RetainRaw keeps every pulled fragment's text and attaches the list to
	// the summary record for diagnostics. Memory then grows with total
	// stream length instead of one in-flight element.
	RetainRaw bool
	// FailFast turns the first element validation failure into a terminal
	// stream error instead of surfacing it on that record and continuing.
	FailFast bool
	// MaxBytes caps the total accumulated text; exceeding it ends the
	// stream with a truncated error. Zero disables the cap.
	MaxBytes int64
	// Logger receives per-stream debug events when set. Nil disables logging.
	Logger logrus.FieldLogger
}
