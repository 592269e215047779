package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is a transport failure: no response was received.
	ErrNetwork = errors.New("network error")
	// ErrResponse is a response with a status outside the 2xx range.
	ErrResponse = errors.New("unexpected response status")
	// ErrDecode is a payload that does not match the expected shape.
	ErrDecode = errors.New("malformed response payload")
	// ErrLookupMiss is a weather code absent from the code table.
	ErrLookupMiss = errors.New("weather code not found")

	ErrInvalidQuery       = errors.New("query must not be empty")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
)

// ResponseError carries the status of a non-success response.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d", ErrResponse, e.StatusCode)
	}
	return fmt.Sprintf("%s: %d: %s", ErrResponse, e.StatusCode, e.Body)
}

func (e *ResponseError) Unwrap() error { return ErrResponse }
