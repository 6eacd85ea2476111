package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority indicates how urgent a request is. It is a caller-supplied hint;
// the coordinator carries it into tasks but does not reorder work on it.
type Priority int

const (
	// PriorityNormal is the default priority.
	PriorityNormal Priority = iota
	// PriorityHigh marks a request that callers consider urgent.
	PriorityHigh
)

// Request is a free-text records request plus optional structured hints.
// It is immutable once submitted: the coordinator reads it but never
// modifies it.
type Request struct {
	// ID is the unique identifier for this request.
	ID string `json:"id"`
	// Text is the free-text body of the request.
	Text string `json:"text"`
	// Topics are optional caller-supplied topic hints.
	Topics []string `json:"topics,omitempty"`
	// Priority is an optional urgency hint.
	Priority Priority `json:"priority"`
	// SubmittedAt is when the request was created.
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewRequest creates a Request with a fresh ID and submission timestamp.
func NewRequest(text string, topics ...string) Request {
	return Request{
		ID:          uuid.NewString(),
		Text:        text,
		Topics:      topics,
		Priority:    PriorityNormal,
		SubmittedAt: time.Now(),
	}
}

// Validate checks that the request is well formed.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &KindError{Kind: ErrInputInvalid, Message: "request text is empty"}
	}
	return nil
}

// KindError is an error carrying an ErrorKind classification.
type KindError struct {
	// Kind classifies the error.
	Kind ErrorKind
	// Message is the human-readable description.
	Message string
	// Err is the wrapped cause, if any.
	Err error
}

// Error implements the error interface.
func (e *KindError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

// Unwrap returns the wrapped cause.
func (e *KindError) Unwrap() error {
	return e.Err
}
