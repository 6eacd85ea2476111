// Package llm provides the completion client used by the analysis step and
// by LLM-backed agents.
package llm

import (
	"context"
	"errors"

	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

// CompletionRequest describes one completion call.
type CompletionRequest struct {
	// Prompt is the user-turn prompt text.
	Prompt string
	// System is the optional system prompt.
	System string
	// MaxTokens bounds the completion length. Zero means the client default.
	MaxTokens int64
	// Temperature controls sampling. Nil means the provider default.
	Temperature *float64
	// Reasoning requests an extended-thinking pass before the final text.
	Reasoning bool
}

// Chunk is one increment of a streaming completion. The final text is the
// concatenation of all non-thinking chunks.
type Chunk struct {
	// Text is the incremental content.
	Text string
	// Thinking marks reasoning-pass tokens, which observers may display
	// but which are not part of the final completion text.
	Thinking bool
}

// Client is the boundary to the completion service. Implementations must
// honor ctx cancellation and deadlines on every call.
type Client interface {
	// Complete returns the full completion text for the request.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// CompleteStream delivers the completion incrementally. The stream's
	// channel is closed when the completion finishes or fails; after that,
	// Stream.Err reports the outcome and Stream.Text the final text.
	CompleteStream(ctx context.Context, req CompletionRequest) (*Stream, error)
}

// Stream delivers completion chunks. Chunks returns the channel; after it
// closes, Err reports whether the stream ended cleanly and Text returns the
// accumulated final completion.
type Stream struct {
	ch   chan Chunk
	err  error
	text string
	done chan struct{}
}

// NewStream creates a stream with the given buffer size.
func NewStream(buffer int) *Stream {
	return &Stream{
		ch:   make(chan Chunk, buffer),
		done: make(chan struct{}),
	}
}

// Chunks returns the channel of incremental content.
func (s *Stream) Chunks() <-chan Chunk {
	return s.ch
}

// Err returns the terminal error, if any. Valid after Chunks is closed.
func (s *Stream) Err() error {
	<-s.done
	return s.err
}

// Text returns the accumulated final completion text.
// Valid after Chunks is closed.
func (s *Stream) Text() string {
	<-s.done
	return s.text
}

// Finish records the outcome and closes the stream.
func (s *Stream) Finish(text string, err error) {
	s.text = text
	s.err = err
	close(s.ch)
	close(s.done)
}

// Send delivers a chunk unless ctx is done.
func (s *Stream) Send(ctx context.Context, c Chunk) {
	select {
	case s.ch <- c:
	case <-ctx.Done():
	}
}

// Classify maps a client error to the orchestration error taxonomy:
// deadline and cancellation become Timeout, everything else ProviderError.
func Classify(err error) models.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return models.ErrTimeout
	}
	return models.ErrProvider
}
