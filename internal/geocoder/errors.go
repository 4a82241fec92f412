package geocoder

import "fmt"

// StatusError is returned when the upstream answered but did not resolve the
// address (ZERO_RESULTS, INVALID_REQUEST, REQUEST_DENIED, ...).
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("geocoder: status %s: %s", e.Status, e.Message)
	}
	return "geocoder: status " + e.Status
}

// TransportError is returned when the upstream could not be reached or its
// reply could not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%d Server Error", e.Code)
	}
	return fmt.Sprintf("%d Server Error: %s", e.Code, e.Body)
}
