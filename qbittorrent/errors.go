package qbittorrent

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes a ClientError.
type ErrorType string

const (
	ErrorTypeIPBanned           ErrorType = "IP_BANNED"
	ErrorTypeInvalidCredentials ErrorType = "INVALID_CREDENTIALS"
	ErrorTypeOperationFailed    ErrorType = "OPERATION_FAILED"
)

// ClientError is returned for the failures the remote service reports
// through a status code or the "Fails." body rather than a regular error.
type ClientError struct {
	Type    ErrorType
	Message string
}

// Error implements the error interface
func (e *ClientError) Error() string {
	return fmt.Sprintf("qbittorrent: %s", e.Message)
}

// Is reports whether target is a ClientError of the same type, so the
// sentinels below match any error carrying their category.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

func newClientError(typ ErrorType, msg string) *ClientError {
	return &ClientError{Type: typ, Message: msg}
}

// Common errors
var (
	// ErrIPBanned indicates the remote locked out this address after repeated login failures
	ErrIPBanned = newClientError(ErrorTypeIPBanned, "too many failed attempts, IP is banned")
	// ErrInvalidCredentials indicates the login was rejected
	ErrInvalidCredentials = newClientError(ErrorTypeInvalidCredentials, "invalid credentials")
	// ErrOperationFailed indicates the remote refused to add a torrent
	ErrOperationFailed = newClientError(ErrorTypeOperationFailed, "operation failed")

	// ErrNoSessionCookie indicates a login response without a SID cookie
	ErrNoSessionCookie = errors.New("qbittorrent: no session cookie in login response")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid qbittorrent configuration")
)

// StatusError represents a non-2xx response that is not otherwise classified.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("qbittorrent API error: %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("qbittorrent API error: %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsForbidden checks if the error indicates a missing or expired session
func (e *StatusError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsNotFound checks if the error indicates an unknown torrent hash
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsType reports whether err is a ClientError of the given category.
func IsType(err error, typ ErrorType) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == typ
	}
	return false
}
