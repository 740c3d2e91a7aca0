// Package errx provides structured application errors with stable codes,
// HTTP status mapping and contextual details.
//
// Each domain package declares its own Registry with a unique prefix and
// registers the error codes it can produce. Handlers convert *Error values
// into HTTP responses at the edge.
package errx

import (
	"fmt"
	"net/http"
	"sync"
)

// Type categorizes an error for clients and for log filtering
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeExternal      Type = "EXTERNAL"
	TypeInternal      Type = "INTERNAL"
)

// Code identifies a registered error definition within a registry
type Code string

type definition struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error definitions of one domain
type Registry struct {
	prefix string

	mu   sync.RWMutex
	defs map[Code]definition
}

// NewRegistry creates a registry whose codes are namespaced by prefix
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		defs:   make(map[Code]definition),
	}
}

// Register adds an error definition and returns its fully-qualified code
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) Code {
	full := Code(r.prefix + "_" + code)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[full] = definition{
		errType:    errType,
		httpStatus: httpStatus,
		message:    message,
	}
	return full
}

// New creates an error for a registered code
func (r *Registry) New(code Code) *Error {
	return r.build(code, nil)
}

// NewWithCause creates an error for a registered code wrapping an underlying cause
func (r *Registry) NewWithCause(code Code, cause error) *Error {
	return r.build(code, cause)
}

func (r *Registry) build(code Code, cause error) *Error {
	r.mu.RLock()
	def, ok := r.defs[code]
	r.mu.RUnlock()

	if !ok {
		def = definition{
			errType:    TypeInternal,
			httpStatus: http.StatusInternalServerError,
			message:    "Unknown error",
		}
	}

	return &Error{
		Code:       code,
		Type:       def.errType,
		Message:    def.message,
		HTTPStatus: def.httpStatus,
		cause:      cause,
	}
}

// Error is a structured application error
type Error struct {
	Code       Code           `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As
func (e *Error) Unwrap() error {
	return e.cause
}

// WithMessage overrides the registered message
func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

// WithDetail attaches a single contextual detail
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails attaches multiple contextual details
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// ToHTTPResponse renders the error body sent to clients
func (e *Error) ToHTTPResponse() map[string]any {
	resp := map[string]any{
		"error":   e.Message,
		"type":    e.Type,
		"code":    e.Code,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		resp["details"] = e.Details
	}
	return resp
}

// Wrap converts an arbitrary error into an *Error with the given message and type
func Wrap(err error, message string, errType Type) *Error {
	status := http.StatusInternalServerError
	switch errType {
	case TypeValidation:
		status = http.StatusBadRequest
	case TypeNotFound:
		status = http.StatusNotFound
	case TypeConflict:
		status = http.StatusConflict
	case TypeAuthorization:
		status = http.StatusForbidden
	case TypeBusiness:
		status = http.StatusUnprocessableEntity
	case TypeExternal:
		status = http.StatusBadGateway
	}

	return &Error{
		Code:       Code("WRAPPED"),
		Type:       errType,
		Message:    message,
		HTTPStatus: status,
		cause:      err,
	}
}
