package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents an XQuery or engine specific error code.
type ErrorCode string

// Error codes based on the XQuery error namespace plus engine specific BASX codes.
const (
	// Static errors
	ErrSyntax           ErrorCode = "XPST0003"
	ErrUnknownFunction  ErrorCode = "XPST0017"
	ErrArgumentCount    ErrorCode = "XPST0017"
	ErrUnknownIndexKind ErrorCode = "BASX0002"

	// Configuration errors
	ErrIndexNotBuilt ErrorCode = "BASX0001"

	// Type errors
	ErrType        ErrorCode = "XPTY0004"
	ErrPathNonNode ErrorCode = "XPTY0019"
	ErrEBV         ErrorCode = "FORG0006"

	// Resource errors
	ErrResource ErrorCode = "FODC0002"

	// Range errors
	ErrNodeOutOfRange ErrorCode = "BASX0003"

	// Dynamic errors
	ErrNoContext       ErrorCode = "XPDY0002"
	ErrNoDatabase      ErrorCode = "BASX0005"
	ErrNestingTooDeep  ErrorCode = "BASX0007"
	ErrStaleNode       ErrorCode = "BASX0008"
	ErrInvalidArgument ErrorCode = "FORG0001"
	ErrInvalidXML      ErrorCode = "FODC0006"
	ErrInternal        ErrorCode = "BASX0000"
)

// ErrorClass groups error codes by the phase and cause that raise them.
type ErrorClass uint8

const (
	ClassDynamic ErrorClass = iota
	ClassStatic
	ClassConfig
	ClassType
	ClassResource
	ClassRange
)

var errorClasses = map[ErrorCode]ErrorClass{
	ErrSyntax:           ClassStatic,
	ErrUnknownFunction:  ClassStatic,
	ErrUnknownIndexKind: ClassStatic,
	ErrIndexNotBuilt:    ClassConfig,
	ErrType:             ClassType,
	ErrPathNonNode:      ClassType,
	ErrEBV:              ClassType,
	ErrResource:         ClassResource,
	ErrNodeOutOfRange:   ClassRange,
}

// String returns the name of the error class.
func (c ErrorClass) String() string {
	switch c {
	case ClassStatic:
		return "static"
	case ClassConfig:
		return "configuration"
	case ClassType:
		return "type"
	case ClassResource:
		return "resource"
	case ClassRange:
		return "range"
	default:
		return "dynamic"
	}
}

// Error represents a structured query error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new query error.
// A negative position means the error has no source location.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Errorf creates a new query error with a formatted message.
func Errorf(code ErrorCode, position int, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...), position)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Class returns the taxonomy class of the error code.
func (e *Error) Class() ErrorClass {
	return errorClasses[e.Code]
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// ClassOf returns the class of the first *Error in err's chain.
// Errors that carry no code are reported as dynamic.
func ClassOf(err error) ErrorClass {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Class()
	}
	return ClassDynamic
}
