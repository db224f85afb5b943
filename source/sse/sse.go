// Package sse adapts a server-sent-events response body into a
// streamshape.FragmentSource. It understands the OpenAI-style chat chunk
// framing: "data: "-prefixed JSON events, a "[DONE]" sentinel, and an
// optional trailing usage-only chunk delivered after the sentinel.
package sse

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	streamshape "github.com/saikethan27/StreamShape"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"

	scannerInitialBuffer = 64 * 1024
	scannerMaxBuffer     = 512 * 1024
)

// Option adjusts how chunks are interpreted.
type Option func(*Source)

// WithContentPath overrides the JSON path used to pull delta text out of a
// chunk (default "choices.0.delta.content").
func WithContentPath(path string) Option {
	return func(s *Source) { s.contentPath = path }
}

// WithUsagePath overrides the JSON path of the usage payload (default "usage").
func WithUsagePath(path string) Option {
	return func(s *Source) { s.usagePath = path }
}

// Source reads SSE lines and exposes them as text fragments. Events without
// delta content or usage are skipped; the "[DONE]" sentinel does not end the
// source because providers send the usage chunk after it.
type Source struct {
	r           io.ReadCloser
	sc          *bufio.Scanner
	contentPath string
	usagePath   string
	closed      bool
}

// New wraps an SSE response body.
func New(r io.ReadCloser, opts ...Option) *Source {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, scannerInitialBuffer), scannerMaxBuffer)
	s := &Source{
		r:           r,
		sc:          sc,
		contentPath: "choices.0.delta.content",
		usagePath:   "usage",
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Source) Next(ctx context.Context) (streamshape.Fragment, error) {
	for {
		if err := ctx.Err(); err != nil {
			return streamshape.Fragment{}, err
		}
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				return streamshape.Fragment{}, err
			}
			return streamshape.Fragment{}, io.EOF
		}
		line := strings.TrimSuffix(s.sc.Text(), "\r")
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := line[len(dataPrefix):]
		if payload == doneSentinel {
			continue
		}
		if !gjson.Valid(payload) {
			continue
		}

		var frag streamshape.Fragment
		if u := gjson.Get(payload, s.usagePath); u.Exists() && u.IsObject() {
			if parsed, err := streamshape.UsageFromJSON([]byte(u.Raw)); err == nil {
				frag.Usage = &parsed
			}
		}
		frag.Text = gjson.Get(payload, s.contentPath).String()
		if frag.Text == "" && frag.Usage == nil {
			continue
		}
		return frag, nil
	}
}

// Close releases the response body. Safe to call more than once.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.r.Close()
}
