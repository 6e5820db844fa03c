package sedapi

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrTimeout          = errors.New("sed builder request timed out")
	ErrRequestFailed    = errors.New("sed builder request failed")
	ErrConnectionFailed = errors.New("sed builder connection failed")
)

// TimeoutError is returned when the service did not answer within the
// client timeout or the caller's deadline.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s after %s: %s", ErrTimeout, e.Timeout, e.URL)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }
func (e *TimeoutError) Unwrap() error        { return e.Err }

// RequestFailedError is returned for a non-2xx HTTP status.
type RequestFailedError struct {
	URL        string
	StatusCode int
	Body       string // truncated
}

func (e *RequestFailedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d: %s", ErrRequestFailed, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s: status %d: %s: %s", ErrRequestFailed, e.StatusCode, e.URL, e.Body)
}

func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }

// ConnectionFailedError is returned when the service could not be reached or
// the response body could not be read.
type ConnectionFailedError struct {
	URL string
	Err error
}

func (e *ConnectionFailedError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrConnectionFailed, e.URL, e.Err)
}

func (e *ConnectionFailedError) Is(target error) bool { return target == ErrConnectionFailed }
func (e *ConnectionFailedError) Unwrap() error        { return e.Err }
