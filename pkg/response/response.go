// Package response turns an encoding pass into a transport response.
//
// BuildMetricsResponse never fails: a successful encode becomes a 200 with
// the payload, any encode error becomes a 500 with a plain-text message and
// no headers.
package response

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"nx-gov/canister-metrics/pkg/counters"
	"nx-gov/canister-metrics/pkg/exposition"
)

const (
	// ContentType is the exposition format media type sent on success.
	ContentType = "text/plain; version=0.0.4"

	// FailurePrefix starts every 500 body.
	FailurePrefix = "Failed to encode metrics: "
)

// Header is a single response header. Order and case are preserved.
type Header struct {
	Name  string
	Value string
}

// Response is a transport-neutral HTTP response.
type Response struct {
	StatusCode int
	Headers    []Header
	Body       []byte
}

// Header returns the value of the first header named name and whether it
// was present. Matching is exact.
func (r Response) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

// WriteHTTP writes r to w. Headers are set verbatim; an empty header list
// sends none, not even a sniffed Content-Type.
func (r Response) WriteHTTP(w http.ResponseWriter) error {
	hdr := w.Header()
	for _, h := range r.Headers {
		hdr[h.Name] = append(hdr[h.Name], h.Value)
	}
	if len(r.Headers) == 0 {
		hdr["Content-Type"] = nil
	}

	w.WriteHeader(r.StatusCode)
	_, err := w.Write(r.Body)
	return err
}

// Sink accumulates an encoded payload.
type Sink interface {
	io.Writer
	Bytes() []byte
}

// Builder assembles metrics responses from a counter reader.
type Builder struct {
	reader  counters.Reader
	encoder *exposition.Encoder
	newSink func() Sink
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the clock used for payload timestamps.
func WithClock(c exposition.Clock) Option {
	return func(b *Builder) {
		b.encoder = exposition.NewEncoder(c)
	}
}

// WithSink replaces the per-call payload buffer.
func WithSink(newSink func() Sink) Option {
	return func(b *Builder) {
		b.newSink = newSink
	}
}

// NewBuilder creates a builder reading from reader.
func NewBuilder(reader counters.Reader, opts ...Option) *Builder {
	b := &Builder{
		reader:  reader,
		encoder: exposition.NewEncoder(nil),
		newSink: func() Sink { return new(bytes.Buffer) },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildMetricsResponse reads the counters, encodes them and wraps the result.
// Each call starts from a fresh sink.
func (b *Builder) BuildMetricsResponse() Response {
	sink := b.newSink()
	if err := b.encoder.Encode(sink, b.reader); err != nil {
		return Failure(err)
	}
	return Success(sink.Bytes())
}

// Success wraps an encoded payload in a 200 response.
func Success(body []byte) Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers: []Header{
			{Name: "Content-Type", Value: ContentType},
			{Name: "Content-Length", Value: strconv.Itoa(len(body))},
		},
		Body: body,
	}
}

// Failure wraps an encode error in a 500 response with no headers.
func Failure(err error) Response {
	return Response{
		StatusCode: http.StatusInternalServerError,
		Headers:    []Header{},
		Body:       []byte(FailurePrefix + err.Error()),
	}
}
