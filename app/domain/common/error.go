package common

import "net/http"

// Error is a coded failure surfaced to HTTP clients. Codes are stable and
// safe to match on; messages are not.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func NewError(status int, code, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

// WithMessage copies e with a more specific message.
func (e *Error) WithMessage(message string) *Error {
	clone := *e
	clone.Message = message
	return &clone
}

var (
	ErrUnknownKind          = NewError(http.StatusNotFound, "0c1f6a51-8c55-4a5e-9a0b-1b7a7b3f2e10", "unknown photo kind")
	ErrInvalidRequest       = NewError(http.StatusBadRequest, "6f2d8a0e-3c4b-4e7f-9d51-7a2c0b8e4f31", "invalid request")
	ErrTooManyItems         = NewError(http.StatusBadRequest, "b8e1c7d2-5a64-4f0b-8c3e-2d9f1a6b7c45", "too many prefetch items")
	ErrSharedCache          = NewError(http.StatusBadGateway, "3a9b7e14-0d2c-4b68-a5f1-9e8c6d4b2a07", "shared cache unavailable")
	ErrStreamingUnsupported = NewError(http.StatusInternalServerError, "e4c2a9f7-1b3d-4e8a-b6c0-5f7d2e9a1c38", "streaming unsupported")
)
