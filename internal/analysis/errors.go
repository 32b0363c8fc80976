package analysis

import "fmt"

// TransportError reports that the analysis service could not be reached or
// answered with a non-success status. StatusCode is zero when no response
// arrived at all.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("analysis service unreachable: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("analysis service returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("analysis service returned status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError reports a success response whose body does not have
// the envelope shape.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed analysis response: %s: %v", e.Reason, e.Err)
	}
	return "malformed analysis response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
