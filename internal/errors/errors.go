package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure by how the gateway reacts to it.
type Kind int

const (
	// KindInternal is anything not classified below.
	KindInternal Kind = iota
	// KindValidation is a missing or inconsistent form field, caught before any remote call.
	KindValidation
	// KindAuth is an expired or invalid session; the session is cleared.
	KindAuth
	// KindNetwork is a transport failure talking to the API.
	KindNetwork
	// KindBusiness is an error reported by the API itself; its message is shown verbatim.
	KindBusiness
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNetwork:
		return "network"
	case KindBusiness:
		return "business"
	default:
		return "internal"
	}
}

// User-facing messages shared by several flows.
const (
	MsgFillAllFields    = "Please fill all fields"
	MsgSessionExpired   = "Session expired. Please login again"
	MsgNetwork          = "Network error. Please check your connection"
	MsgServerNotReached = "Server not responding. Please try again later."
)

var (
	// ErrMissingFields is returned when a required form field is empty.
	ErrMissingFields = Validation(MsgFillAllFields)
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = Validation("Passwords do not match")
	// ErrInvalidUserType is returned when the API hands back an unknown role.
	ErrInvalidUserType = Validation("Invalid user type")
	// ErrNotLoggedIn is returned when an action needs a session and there is none.
	ErrNotLoggedIn = Auth("Please login to continue")
	// ErrBookingNotFound is returned when the booking is not in the current listing.
	ErrBookingNotFound = Business("booking not found", http.StatusNotFound)
	// ErrBookingNotPending is returned when a decision targets a booked or rejected booking.
	ErrBookingNotPending = Validation("booking is no longer pending")
)

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a validation error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Status: http.StatusBadRequest}
}

// Auth builds an authentication error.
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg, Status: http.StatusUnauthorized}
}

// Network wraps a transport failure.
func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "api unreachable", Status: http.StatusBadGateway, Err: err}
}

// Business builds an error reported by the API.
func Business(msg string, status int) *Error {
	if status == 0 {
		status = http.StatusUnprocessableEntity
	}
	return &Error{Kind: KindBusiness, Message: msg, Status: status}
}

// KindOf returns the kind of err, KindInternal when unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsAuth reports whether err should clear the session.
func IsAuth(err error) bool { return err != nil && KindOf(err) == KindAuth }

// UserMessage is the notification text for err. Validation and business
// messages are surfaced as they are; fallback is used for internal errors.
func UserMessage(err error, fallback string) string {
	var e *Error
	if !errors.As(err, &e) {
		return fallback
	}
	switch e.Kind {
	case KindValidation, KindBusiness:
		if e.Message != "" {
			return e.Message
		}
	case KindAuth:
		return MsgSessionExpired
	case KindNetwork:
		return MsgNetwork
	}
	return fallback
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps classified errors to HTTP errors. fallback is the
// message used for internal errors.
func MapErrorToHTTP(err error, fallback string) *HTTPError {
	var e *Error
	if !errors.As(err, &e) {
		return NewHTTPError(http.StatusInternalServerError, fallback, "INTERNAL_ERROR")
	}
	msg := UserMessage(err, fallback)
	switch e.Kind {
	case KindValidation:
		return NewHTTPError(http.StatusBadRequest, msg, "VALIDATION_ERROR")
	case KindAuth:
		return NewHTTPError(http.StatusUnauthorized, msg, "UNAUTHENTICATED")
	case KindNetwork:
		return NewHTTPError(http.StatusBadGateway, msg, "API_UNREACHABLE")
	case KindBusiness:
		status := e.Status
		if status < 400 || status == http.StatusUnauthorized {
			status = http.StatusUnprocessableEntity
		}
		return NewHTTPError(status, msg, "API_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, fallback, "INTERNAL_ERROR")
	}
}
