package catalog

import "fmt"

// HTTPError is returned when the catalog answers outside the 2xx range.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API error: status %d for %s", e.Status, e.URL)
}

// DecodeError is returned when the body is not the expected JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("JSON decode error for %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
