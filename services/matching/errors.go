package matching

import "fmt"

// ValidationError rejects malformed matching criteria before any I/O.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// SearchError is an upstream failure of a whole-search-scoped call. It is
// distinct from a legitimately empty result, which is (empty slice, nil).
type SearchError struct {
	Code    string
	Message string
	Err     error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SearchError) Unwrap() error { return e.Err }

func newSearchError(msg string, err error) error {
	return &SearchError{Code: "upstreamFailure", Message: msg, Err: err}
}
