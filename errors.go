package toolwire

import (
	"errors"
	"fmt"
)

// Sentinel errors for toolwire. Use errors.Is to check.
var (
	ErrToolNotFound   = errors.New("tool not found")
	ErrValidation     = errors.New("validation failed")
	ErrUnknownFormat  = errors.New("unknown tool format")
	ErrAmbiguousPairs = errors.New("privacy pairs do not round-trip")
)

// ClientError is an error that should be sent back to the LLM for self-correction
// (e.g. parameters that do not match the declared schema, or an unknown tool name).
// Err optionally wraps a sentinel (e.g. ErrValidation) for errors.Is/errors.As.
type ClientError struct {
	Reason string
	Err    error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("invalid tool call: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains (e.g. errors.Is(err, ErrValidation)).
func (e *ClientError) Unwrap() error { return e.Err }

// SystemError represents an internal failure, such as a panic inside a custom extractor.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string {
	return "internal error during tool call decoding"
}

func (e *SystemError) Unwrap() error { return e.Err }

// ExtractError is returned when an extractor collaborator fails. Only the XML
// path surfaces it; the other formats log and degrade to an empty result.
type ExtractError struct {
	Format Format
	Tool   string
	Err    error
}

func (e *ExtractError) Error() string {
	if e.Tool == "" {
		return fmt.Sprintf("%s extraction failed: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("%s extraction failed for %q: %v", e.Format, e.Tool, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// IsClientError returns true if err is or wraps a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsSystemError returns true if err is or wraps a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// panicError wraps a recovered panic value for SystemError; used by the Decoder and WithRecovery.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
