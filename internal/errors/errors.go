package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingCredentials is returned when email or password is blank.
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrUserAlreadyExists is returned when the email is already registered.
	ErrUserAlreadyExists = errors.New("email already registered")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound is returned when the authenticated user no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrMissingToken is returned when a protected route is called without a bearer token.
	ErrMissingToken = errors.New("no token provided")
	// ErrInvalidToken is returned when the bearer token fails verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrHolidayNotFound is returned when a holiday does not exist or belongs to another user.
	ErrHolidayNotFound = errors.New("holiday not found")
	// ErrMissingHolidayFields is returned when a create request lacks name or dates.
	ErrMissingHolidayFields = errors.New("name, startDate, and endDate are required")
	// ErrInvalidName is returned when an update sets the name to a blank value.
	ErrInvalidName = errors.New("name must not be empty")
	// ErrInvalidDate is returned when a date is neither YYYY-MM-DD nor RFC 3339.
	ErrInvalidDate = errors.New("invalid date format")
	// ErrInvalidDateRange is returned when the start date falls after the end date.
	ErrInvalidDateRange = errors.New("start date must be before end date")

	// ErrInvalidRequest is returned when the request body cannot be decoded.
	ErrInvalidRequest = errors.New("invalid request body")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse is the body of successful operations that return no record.
type MessageResponse struct {
	Message string `json:"message"`
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

// IsInternal reports whether the error maps to a 5xx response.
func (e *HTTPError) IsInternal() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are matched
// with errors.Is; anything unknown becomes a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, ErrMissingCredentials):
		return NewHTTPError(http.StatusBadRequest, "Email and password are required", "MISSING_CREDENTIALS")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusBadRequest, "Email already registered", "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, "User not found", "USER_NOT_FOUND")
	case errors.Is(err, ErrMissingToken):
		return NewHTTPError(http.StatusUnauthorized, "No token provided", "MISSING_TOKEN")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, "Invalid token", "INVALID_TOKEN")
	case errors.Is(err, ErrHolidayNotFound):
		return NewHTTPError(http.StatusNotFound, "Holiday not found", "HOLIDAY_NOT_FOUND")
	case errors.Is(err, ErrMissingHolidayFields):
		return NewHTTPError(http.StatusBadRequest, "Name, startDate, and endDate are required", "MISSING_HOLIDAY_FIELDS")
	case errors.Is(err, ErrInvalidName):
		return NewHTTPError(http.StatusBadRequest, "Name must not be empty", "INVALID_NAME")
	case errors.Is(err, ErrInvalidDate):
		return NewHTTPError(http.StatusBadRequest, "Invalid date format", "INVALID_DATE")
	case errors.Is(err, ErrInvalidDateRange):
		return NewHTTPError(http.StatusBadRequest, "Start date must be before end date", "INVALID_DATE_RANGE")
	case errors.Is(err, ErrInvalidRequest):
		return NewHTTPError(http.StatusBadRequest, "Invalid request body", "INVALID_REQUEST")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}
