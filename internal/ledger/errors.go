package ledger

import "fmt"

// StorageError is an unexpected low-level storage failure: connection loss
// beyond one retry, schema mismatch, or a constraint violation other than
// the modeled duplicate/absence outcomes. It names the attempted operation
// and the key identifiers involved and always carries the underlying cause.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("storage: %s (%s): %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
