package engine

import (
	"context"
	"errors"
	"fmt"
)

// Error codes carried by FetchError.
const (
	ErrCodeTimeout       = "FETCH_TIMEOUT"
	ErrCodeNavigation    = "NAVIGATION_FAILED"
	ErrCodeBrowserLaunch = "BROWSER_LAUNCH_FAILED"
	ErrCodeHTTPStatus    = "HTTP_STATUS"
	ErrCodeContent       = "CONTENT_UNAVAILABLE"
)

// FetchError is the error type returned by engines. It carries a code and
// supports unwrapping to the underlying cause.
type FetchError struct {
	Code    string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(code, message string, err error) *FetchError {
	return &FetchError{Code: code, Message: message, Err: err}
}

// IsCode reports whether err is a FetchError with the given code
func IsCode(err error, code string) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Code == code
}

// categorizeError wraps raw errors into FetchErrors, separating deadlines from
// other navigation failures.
func categorizeError(err error, msg string) *FetchError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewFetchError(ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return NewFetchError(ErrCodeTimeout, "fetch canceled", err)
	default:
		return NewFetchError(ErrCodeNavigation, msg, err)
	}
}
