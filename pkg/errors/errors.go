// Package errors provides the unified error type and factory functions for the
// NanoForge compiler.  Every layer (topology, typing, parameter resolution,
// rigid-body mechanics) uses CompileError as the single carrier for structured
// fault information, enabling consistent logging and caller-side recovery.
//
// Faults never carry partial output: a pass that returns a CompileError has
// produced nothing the caller may keep.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// CompileError — the canonical fault type
// ─────────────────────────────────────────────────────────────────────────────

// CompileError is the single structured error type used throughout NanoForge.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across layers.
//
// Usage:
//
//	return errors.UnsupportedRing("3-membered ring", addrs...)
//	return errors.Wrap(err, errors.CodeMissingParameter, "angle lookup failed")
type CompileError struct {
	// Code is the typed error code that uniquely identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the fault.
	Message string

	// Detail carries supplementary context (entity codes, table keys, etc.)
	// that aids debugging.
	Detail string

	// Addresses identifies every atom the fault references.  For structural
	// faults the first address is the center and the remainder its bonded
	// neighborhood.
	Addresses []forcefield.AtomAddress

	// Cause is the underlying error that triggered this fault, enabling
	// errors.Is / errors.As traversal of the full error chain.
	Cause error

	// Stack contains the formatted call-stack captured at the point of error
	// creation.  It is intentionally not included in Error() output; callers
	// that need it can inspect the field directly.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code_name>(<code_int>)] <message> @[addr, ...]: <detail>"
// Address and detail segments are omitted when empty.
func (e *CompileError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s(%d)] %s", e.Code.String(), int(e.Code), e.Message)
	if len(e.Addresses) > 0 {
		parts := make([]string, len(e.Addresses))
		for i, a := range e.Addresses {
			parts[i] = a.String()
		}
		fmt.Fprintf(&sb, " @[%s]", strings.Join(parts, ", "))
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

// Unwrap returns the underlying cause error.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// ─────────────────────────────────────────────────────────────────────────────
// Fluent builder methods
// ─────────────────────────────────────────────────────────────────────────────

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer (returns nil).
func (e *CompileError) WithDetail(detail string) *CompileError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithAddresses returns a shallow copy of the receiver with Addresses
// replaced by the supplied list.
func (e *CompileError) WithAddresses(addrs ...forcefield.AtomAddress) *CompileError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Addresses = addrs
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *CompileError) WithCause(err error) *CompileError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Primary factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh CompileError with the given code and message.
// A call-stack snapshot is captured automatically.
func New(code ErrorCode, message string) *CompileError {
	return &CompileError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Wrap constructs a CompileError that wraps an existing error.  If err is nil,
// Wrap returns nil so it can be used inline.  When err is already a
// *CompileError and code is CodeUnknown, the original code is preserved so the
// domain classification survives cross-layer propagation.
func Wrap(err error, code ErrorCode, message string) *CompileError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ce *CompileError
		if errors.As(err, &ce) {
			code = ce.Code
		}
	}
	return &CompileError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Taxonomic factories
// ─────────────────────────────────────────────────────────────────────────────

// MissingParameter constructs the fault raised when a table lookup exhausts
// every fallback.  The addresses list the atoms of the unparameterized entity.
func MissingParameter(message string, addrs ...forcefield.AtomAddress) *CompileError {
	return &CompileError{
		Code:      CodeMissingParameter,
		Message:   message,
		Addresses: addrs,
		Stack:     captureStack(1),
	}
}

// OpenValenceShell constructs the fault raised when an atom's bond count is
// outside its element's valence.  The first address is the center; the rest
// are its bonded neighbors.
func OpenValenceShell(message string, addrs ...forcefield.AtomAddress) *CompileError {
	return &CompileError{
		Code:      CodeOpenValenceShell,
		Message:   message,
		Addresses: addrs,
		Stack:     captureStack(1),
	}
}

// UnsupportedCenterType constructs the fault raised for centers the force
// field has no description of.  The first address is the center; the rest are
// its bonded neighbors.
func UnsupportedCenterType(message string, addrs ...forcefield.AtomAddress) *CompileError {
	return &CompileError{
		Code:      CodeUnsupportedCenterType,
		Message:   message,
		Addresses: addrs,
		Stack:     captureStack(1),
	}
}

// UnsupportedRing constructs the fault raised for rings of size 3 or 4.
// The addresses list every ring member.
func UnsupportedRing(message string, addrs ...forcefield.AtomAddress) *CompileError {
	return &CompileError{
		Code:      CodeUnsupportedRing,
		Message:   message,
		Addresses: addrs,
		Stack:     captureStack(1),
	}
}

// InvalidParam constructs the fault raised for malformed descriptors.
func InvalidParam(message string) *CompileError {
	return &CompileError{
		Code:    CodeInvalidParam,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Internal constructs an implementation fault with the given internal code.
func Internal(code ErrorCode, message string) *CompileError {
	return &CompileError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is a *CompileError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ce *CompileError
	for err != nil {
		if errors.As(err, &ce) && ce.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *CompileError found in err's
// chain.  If no *CompileError is present, CodeUnknown is returned; nil maps
// to CodeOK.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return CodeUnknown
}

// IsUserFault reports whether err classifies as bad caller input rather than
// a compiler defect.  Internal faults (slot overflow, diagonalization) and
// uncategorised errors return false.
func IsUserFault(err error) bool {
	return GetCode(err).IsUserFault()
}
