// Package storage defines the contracts any persistence backend must
// satisfy, plus the sentinel errors handlers branch on.
//
// Handlers depend only on these interfaces. Switching backends (jsonfile
// to sqlite and back) is a config change plus one line in main — zero
// handler changes, and tests pass a stub instead of touching disk.
package storage

import (
	"errors"

	"student-records/internal/types"
)

// Sentinel errors for the expected, non-internal outcomes. Anything else
// a backend returns is treated as an internal storage failure.
var (
	// ErrStudentNotFound means no record matched the requested id.
	ErrStudentNotFound = errors.New("student not found")

	// ErrEmailTaken means registration hit an already-used email.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials means no credential matched both email and
	// password. Deliberately one error for "unknown email" and "wrong
	// password" — login never reveals which half was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// StudentStore is the contract for the student collection. The collection
// is ordered: List returns records in insertion order, and mutations
// preserve the order of the untouched records.
//
// Implementations must serialize operations on the collection — two
// concurrent creates must not both read the same snapshot.
type StudentStore interface {
	// List returns every student, in order. Empty slice, not nil, when
	// there are none.
	List() ([]types.Student, error)

	// GetByID returns the student with the given id, or ErrStudentNotFound.
	GetByID(id string) (types.Student, error)

	// Create assigns the new record's id, appends it to the collection,
	// persists, and returns the stored record.
	Create(s types.Student) (types.Student, error)

	// Update shallow-merges the patch over the record with the given id
	// and persists. Returns the merged record, or ErrStudentNotFound.
	Update(id string, patch types.StudentPatch) (types.Student, error)

	// Delete removes exactly the record with the given id and persists.
	// Returns ErrStudentNotFound if the id is unknown.
	Delete(id string) error
}

// CredentialStore is the contract for the login-identity collection.
// Credentials are registered once and never updated or deleted.
type CredentialStore interface {
	// Register appends a new credential and persists. Returns
	// ErrEmailTaken if the email is already registered.
	Register(c types.Credential) error

	// Authenticate succeeds only on an exact email+password match,
	// otherwise returns ErrInvalidCredentials.
	Authenticate(email, password string) error
}
