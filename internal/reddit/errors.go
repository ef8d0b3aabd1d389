package reddit

import "fmt"

// TransportError is a whole-request failure: the network call itself, an
// HTTP error status, or an undecodable response body.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("reddit: GET %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("reddit: GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
