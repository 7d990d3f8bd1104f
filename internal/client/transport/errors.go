package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for each failure class. Match them with errors.Is; use
// errors.As with *Error for the status code and backend detail.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrClient       = errors.New("request rejected")
	ErrNoResponse   = errors.New("no response from server")
	ErrRequest      = errors.New("request construction failed")

	// errUnexpectedStatus describes KindUnknown, e.g. a 3xx that was not
	// followed. It is not exported: such errors match no sentinel.
	errUnexpectedStatus = errors.New("unexpected status")
)

// Kind classifies a failed call.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindServer
	KindClient
	KindNoResponse
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server_error"
	case KindClient:
		return "client_error"
	case KindNoResponse:
		return "no_response"
	case KindRequest:
		return "request_error"
	}
	return "unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case KindUnauthorized:
		return ErrUnauthorized
	case KindForbidden:
		return ErrForbidden
	case KindNotFound:
		return ErrNotFound
	case KindServer:
		return ErrServer
	case KindClient:
		return ErrClient
	case KindNoResponse:
		return ErrNoResponse
	case KindRequest:
		return ErrRequest
	}
	return nil
}

// KindForStatus maps a non-2xx HTTP status to its failure class.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= http.StatusInternalServerError:
		return KindServer
	case status >= http.StatusBadRequest:
		return KindClient
	}
	return KindUnknown
}

// Error is returned for every failed call.
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int    // zero when no response was received
	Detail     string // backend "detail" message, if any
	Err        error  // underlying cause for KindNoResponse and KindRequest
}

func (e *Error) Error() string {
	reason := e.Kind.sentinel()
	if reason == nil {
		reason = errUnexpectedStatus
	}
	msg := fmt.Sprintf("%s %s: %s", e.Method, e.Path, reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (%d)", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	var te *Error
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
