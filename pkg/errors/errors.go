// Package errors defines the coded errors shared by the whiteboard core,
// the CLI, the HTTP server and the desktop app.
//
// Every [Error] carries a [Code]. Codes are grouped into kinds (invalid
// input, missing resource, failed operation, internal) and each front end
// maps the kind to its own surface: an HTTP status, a process exit code,
// or a status-bar message.
//
//	err := errors.New(errors.ErrCodeElementNotFound, "element %q not found", id)
//	errors.Is(err, errors.ErrCodeElementNotFound) // true
//	errors.HTTPStatus(err)                        // 422
//
//	err = errors.Wrap(errors.ErrCodeRenderFailed, cause, "render %s", format)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error identifier. It is part of the
// HTTP API's error body.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidTool    Code = "INVALID_TOOL"
	ErrCodeInvalidElement Code = "INVALID_ELEMENT"
	ErrCodeInvalidColor   Code = "INVALID_COLOR"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidScript  Code = "INVALID_SCRIPT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeElementNotFound Code = "ELEMENT_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeSaveFailed   Code = "SAVE_FAILED"
	ErrCodeCache        Code = "CACHE_ERROR"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind groups codes by who is at fault.
type Kind int

const (
	KindInternal Kind = iota // a bug or an uncoded error
	KindInvalid              // the caller sent bad input
	KindNotFound             // a referenced resource does not exist
	KindFailed               // a well-formed operation could not complete
)

var kinds = map[Code]Kind{
	ErrCodeInvalidInput:    KindInvalid,
	ErrCodeInvalidTool:     KindInvalid,
	ErrCodeInvalidElement:  KindInvalid,
	ErrCodeInvalidColor:    KindInvalid,
	ErrCodeInvalidFormat:   KindInvalid,
	ErrCodeInvalidScript:   KindInvalid,
	ErrCodeInvalidPath:     KindInvalid,
	ErrCodeUnsupported:     KindInvalid,
	ErrCodeNotFound:        KindNotFound,
	ErrCodeElementNotFound: KindNotFound,
	ErrCodeFileNotFound:    KindNotFound,
	ErrCodeRenderFailed:    KindFailed,
	ErrCodeSaveFailed:      KindFailed,
	ErrCodeCache:           KindFailed,
}

// Kind returns the group c belongs to. Unknown codes are internal.
func (c Code) Kind() Kind { return kinds[c] }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string // shown to users as is
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// KindOf returns the kind of err's code. Uncoded errors are internal.
func KindOf(err error) Kind { return GetCode(err).Kind() }

// IsValidation reports whether err is the caller's fault.
func IsValidation(err error) bool { return KindOf(err) == KindInvalid }

// UserMessage returns the message of a coded error without its code, or
// err.Error() for anything else.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		// Ids name things inside the request body, not the URL.
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// Exit codes of the command-line tools.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindInvalid, KindNotFound:
		return ExitUsage
	}
	return ExitFailure
}
