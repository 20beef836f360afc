package scraper

import "fmt"

// DomainMismatchError reports a URL outside the supported listing domains.
// The extraction heuristics are tuned to one site's markup and would silently
// produce garbage on arbitrary HTML, so this fails before any network I/O.
type DomainMismatchError struct {
	URL string
}

func (e *DomainMismatchError) Error() string {
	return fmt.Sprintf("url %q is not on a supported listing domain", e.URL)
}

// NetworkError reports a failed download: a non-success HTTP status or a
// transport-level failure, in which case Cause is set and Status is zero.
type NetworkError struct {
	URL    string
	Status int
	Cause  error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// TimeoutError reports that the fetch deadline elapsed before a response.
type TimeoutError struct {
	URL string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetch %s: timed out", e.URL)
}
