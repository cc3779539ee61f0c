package provisioning

import (
	"errors"
	"fmt"
)

// ErrConfirmationRequired is returned by DeleteGroup when the caller has
// not confirmed the deletion. Callers present the deletion plan and retry
// with force once confirmed.
var ErrConfirmationRequired = errors.New("deletion requires confirmation")

// PreconditionError reports a condition that must hold before any cloud
// call is made: a missing dump, a missing primary for add, an invalid
// instance count.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

// IsPrecondition checks whether err is a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// SeedingError reports a failed dump load into the primary. It aborts the
// whole run: without a seeded primary there is no clone source.
type SeedingError struct {
	Instance string
	Message  string
}

func (e *SeedingError) Error() string {
	return fmt.Sprintf("seeding %s failed: %s", e.Instance, e.Message)
}

// PersistenceError reports a credential store write failure. Cloud-side
// effects are not rolled back; the operator must reconcile manually.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to persist credentials: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
