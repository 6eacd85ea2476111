package models

// ErrorKind classifies a failure surfaced by an agent or by the analysis step.
type ErrorKind string

const (
	// ErrProvider indicates the LLM service was unreachable or returned an error.
	ErrProvider ErrorKind = "provider_error"
	// ErrParse indicates LLM output was not in the expected structured form.
	ErrParse ErrorKind = "parse_error"
	// ErrTimeout indicates a call or agent invocation exceeded its deadline.
	ErrTimeout ErrorKind = "timeout"
	// ErrInputInvalid indicates a malformed request or task.
	ErrInputInvalid ErrorKind = "input_invalid"
	// ErrInternal indicates an unexpected error inside an agent.
	ErrInternal ErrorKind = "internal_error"
	// ErrRegistry indicates a referenced agent is not registered and no
	// fallback is available. This is the only fatal kind.
	ErrRegistry ErrorKind = "registry_error"
)

// Valid returns true if the kind is a known value.
func (k ErrorKind) Valid() bool {
	switch k {
	case ErrProvider, ErrParse, ErrTimeout, ErrInputInvalid, ErrInternal, ErrRegistry:
		return true
	default:
		return false
	}
}

// Fatal returns true if the kind cannot be recovered into a partial result.
func (k ErrorKind) Fatal() bool {
	return k == ErrRegistry
}
