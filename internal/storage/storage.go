// Package storage defines the Storage interface — a contract that any
// record store must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care which store they are
// talking to. By depending only on this interface:
//
//   - Switching stores = implement the interface for the new backend,
//     pick it in the config file. Zero handler changes.
//
//   - Writing tests = build a fresh in-memory store per test.
//     No shared state between tests.
//
// Three implementations live in sub-packages: memory (the default),
// sqlite and redis.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/students-api/internal/types"
)

// Error kinds every store reports. Implementations return them wrapped in
// an *EntityError, so callers must compare with errors.Is, never with ==.
var (
	// ErrAlreadyExists: an add targeted a key that is already stored.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound: the referenced student or class is not stored.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRegistered: the student is already listed under the class.
	ErrAlreadyRegistered = errors.New("already registered")
)

// Entity names carried by EntityError.
const (
	EntityStudent = "student"
	EntityClass   = "class"
)

// EntityError ties an error kind to the record it concerns, so the HTTP
// layer can say "Class not found" rather than just "not found".
type EntityError struct {
	Entity string // EntityStudent or EntityClass
	ID     string
	Err    error // ErrAlreadyExists, ErrNotFound or ErrAlreadyRegistered
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Entity, e.ID, e.Err)
}

func (e *EntityError) Unwrap() error { return e.Err }

// NotFound reports that entity id is not stored.
func NotFound(entity, id string) error {
	return &EntityError{Entity: entity, ID: id, Err: ErrNotFound}
}

// AlreadyExists reports that entity id is already stored.
func AlreadyExists(entity, id string) error {
	return &EntityError{Entity: entity, ID: id, Err: ErrAlreadyExists}
}

// AlreadyRegistered reports a duplicate registration. The error concerns
// the student.
func AlreadyRegistered(studentID, classID string) error {
	return fmt.Errorf("class %q: %w", classID,
		&EntityError{Entity: EntityStudent, ID: studentID, Err: ErrAlreadyRegistered})
}

// Storage is the record store contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface.
//
// Every check-then-act method (add, update, delete, register) must be
// atomic with respect to concurrent callers on the same store.
type Storage interface {
	// AddStudent inserts a student under a caller-chosen id.
	// Returns ErrAlreadyExists if the id is taken.
	AddStudent(ctx context.Context, id string, student types.Student) error

	// UpdateStudent replaces the whole stored record (no partial merge).
	// Returns ErrNotFound if the id is absent.
	UpdateStudent(ctx context.Context, id string, student types.Student) error

	// DeleteStudent removes a student. Registrations that reference it are
	// left in place. Returns ErrNotFound if the id is absent.
	DeleteStudent(ctx context.Context, id string) error

	// GetStudent returns one student or ErrNotFound.
	GetStudent(ctx context.Context, id string) (types.Student, error)

	// ListStudents returns every stored student ordered by id.
	// Returns an empty slice (not nil) when there are none.
	ListStudents(ctx context.Context) ([]types.StudentEntry, error)

	AddClass(ctx context.Context, id string, class types.ClassInfo) error
	UpdateClass(ctx context.Context, id string, class types.ClassInfo) error
	DeleteClass(ctx context.Context, id string) error
	GetClass(ctx context.Context, id string) (types.ClassInfo, error)
	ListClasses(ctx context.Context) ([]types.ClassEntry, error)

	// Register appends studentID to the class's registration sequence.
	// The student is checked first, then the class: both missing reports
	// the student. Returns ErrNotFound or ErrAlreadyRegistered.
	Register(ctx context.Context, studentID, classID string) error

	// ClassStudents returns the full records of the students registered to
	// classID in registration order. A class without registrations (or an
	// unknown class) yields an empty slice. Registered students whose
	// record was deleted are skipped.
	ClassStudents(ctx context.Context, classID string) ([]types.Student, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}
