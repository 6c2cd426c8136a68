package booking

import "fmt"

// Commit phases named in CommitError.
const (
	PhaseInternalInsert = "internal_insert"
	PhaseExternalCreate = "external_create"
	PhaseExternalLink   = "external_link"
)

// CommitError reports which half of the two-phase commit failed. The
// compensating rollback has already run by the time callers see it.
type CommitError struct {
	Phase string
	Err   error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("booking commit failed during %s: %v", e.Phase, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// ConflictError rejects a booking whose provider already has an overlapping
// job on that date. Raised before any write.
type ConflictError struct {
	ProviderID string
	Date       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("provider %s has a conflicting booking on %s", e.ProviderID, e.Date)
}

// ValidationError rejects malformed booking input before any I/O.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
