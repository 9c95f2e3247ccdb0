package petals

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline. Use errors.Is to check; the structured
// error types below all match their sentinel and carry detail for logs.
//
// "No call detected" and "not a trigger candidate" are routing decisions, not
// errors: Normalizer.Normalize returns (nil, nil) and the Evaluator returns
// false for those.
var (
	ErrMalformedCall    = errors.New("malformed tool call")
	ErrUnknownTool      = errors.New("unknown tool")
	ErrArgumentDecode   = errors.New("argument decode failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrShutdown         = errors.New("registry is shutting down")
)

// MalformedCallError reports a detected call wrapper whose inner payload
// failed to parse as a JSON call object. Distinct from "no call detected":
// the Normalizer returns (nil, nil) for ordinary content.
type MalformedCallError struct {
	Wrapper string // which encoding matched: "sentinel" or "tag"
	Err     error
}

func (e *MalformedCallError) Error() string {
	return fmt.Sprintf("malformed %s-delimited tool call: %v", e.Wrapper, e.Err)
}

func (e *MalformedCallError) Unwrap() error { return e.Err }

func (e *MalformedCallError) Is(target error) bool { return target == ErrMalformedCall }

// UnknownToolError reports a call whose name has no registered handler. An id
// outside the ToolID enumeration and a known id left unregistered on this
// platform fail identically; Name carries the raw name for logs.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

func (e *UnknownToolError) Is(target error) bool { return target == ErrUnknownTool }

// DecodeError reports arguments that could not be coerced into a tool's
// payload shape even with tolerant decoding.
type DecodeError struct {
	Tool   ToolID
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode arguments for %s: %s", e.Tool, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrArgumentDecode }

// PermissionError reports an executor that refused to run because the caller
// or environment lacks the required access level.
type PermissionError struct {
	Tool     ToolID
	Required Permission
	Granted  Permission
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("tool %s requires %s permission (granted: %s)", e.Tool, e.Required, e.Granted)
}

func (e *PermissionError) Is(target error) bool { return target == ErrPermissionDenied }

// ExecutionError reports an executor that ran but raised an internal error.
// The underlying cause is preserved for logs; the Renderer shows the user a
// safe summary instead.
type ExecutionError struct {
	Tool ToolID
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed during execution", e.Tool)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// IsPermissionDenied reports whether err is or wraps a permission refusal.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsExecutionError reports whether err is or wraps an ExecutionError.
func IsExecutionError(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee)
}

// panicError wraps a recovered panic value; used by Registry dispatch and the
// WithRecovery middleware.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
