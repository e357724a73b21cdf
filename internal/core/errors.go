package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeUnknownConnection = "unknown_connection"
	ErrCodeBadRequest        = "bad_request"
	ErrCodeRateLimited       = "rate_limited"
	ErrCodeInvalidSample     = "invalid_sample"
)

var (
	// ErrUnknownConnection is returned by room operations on a connection id
	// that is not (or no longer) registered with the hub.
	ErrUnknownConnection = errors.New("unknown connection")
	ErrBadRequest        = errors.New("bad request")
	ErrInvalidSample     = errors.New("invalid sensor sample")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// ErrorFor maps a domain error onto the code sent to realtime clients.
func ErrorFor(err error) *CoreError {
	switch {
	case errors.Is(err, ErrUnknownConnection):
		return coreError(ErrCodeUnknownConnection, err.Error())
	case errors.Is(err, ErrInvalidSample):
		return coreError(ErrCodeInvalidSample, err.Error())
	case errors.Is(err, ErrBadRequest):
		return coreError(ErrCodeBadRequest, err.Error())
	default:
		return coreError("internal", err.Error())
	}
}
