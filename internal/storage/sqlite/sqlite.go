// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. Selecting it (storage.driver: sqlite) makes students, classes
// and registrations survive a restart.
//
// Importing go-sqlite3 registers the "sqlite3" driver with database/sql;
// its Error type is also used to recognise constraint violations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// schema is idempotent — safe to run on every startup.
//
// There are no foreign keys on registrations: deleting a student or a
// class must leave its registrations untouched. seq records registration
// order; the UNIQUE constraint rejects duplicate registrations.
const schema = `
CREATE TABLE IF NOT EXISTS students (
	id          TEXT    PRIMARY KEY,
	first_name  TEXT    NOT NULL,
	last_name   TEXT    NOT NULL,
	middle_name TEXT,
	age         INTEGER NOT NULL,
	city        TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS classes (
	id              TEXT    PRIMARY KEY,
	class_name      TEXT    NOT NULL,
	description     TEXT    NOT NULL,
	start_date      TEXT    NOT NULL,
	end_date        TEXT    NOT NULL,
	number_of_hours INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS registrations (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	class_id   TEXT    NOT NULL,
	student_id TEXT    NOT NULL,
	UNIQUE (class_id, student_id)
);
`

// New opens the SQLite database at storagePath, creates the tables if
// they do not already exist, and returns a ready-to-use *SQLite.
func New(storagePath string) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN).
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// SQLite allows one writer at a time. A single connection serialises
	// every statement and transaction through the pool, which is what
	// makes Register's check-then-insert atomic.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

// AddStudent inserts a new row into the students table. A primary key
// violation means the id is taken.
func (s *SQLite) AddStudent(ctx context.Context, id string, student types.Student) error {
	stmt, err := s.Db.PrepareContext(ctx,
		`INSERT INTO students (id, first_name, last_name, middle_name, age, city)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("AddStudent: prepare: %w", err)
	}
	// defer ensures the statement is closed when this function returns.
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		id, student.FirstName, student.LastName, nullString(student.MiddleName), student.Age, student.City)
	if isConstraint(err) {
		return storage.AlreadyExists(storage.EntityStudent, id)
	}
	if err != nil {
		return fmt.Errorf("AddStudent: exec: %w", err)
	}

	return nil
}

// UpdateStudent replaces every column of an existing row.
func (s *SQLite) UpdateStudent(ctx context.Context, id string, student types.Student) error {
	result, err := s.Db.ExecContext(ctx,
		`UPDATE students
		 SET first_name = ?, last_name = ?, middle_name = ?, age = ?, city = ?
		 WHERE id = ?`,
		student.FirstName, student.LastName, nullString(student.MiddleName), student.Age, student.City, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateStudent: exec: %w", err)
	}
	return requireAffected(result, storage.EntityStudent, id)
}

func (s *SQLite) DeleteStudent(ctx context.Context, id string) error {
	result, err := s.Db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteStudent: exec: %w", err)
	}
	return requireAffected(result, storage.EntityStudent, id)
}

// GetStudent fetches exactly one student row matched by primary key.
func (s *SQLite) GetStudent(ctx context.Context, id string) (types.Student, error) {
	row := s.Db.QueryRowContext(ctx,
		`SELECT first_name, last_name, middle_name, age, city
		 FROM students WHERE id = ? LIMIT 1`,
		id,
	)

	student, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		// sql.ErrNoRows is the sentinel error for "nothing matched".
		return types.Student{}, storage.NotFound(storage.EntityStudent, id)
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudent: scan: %w", err)
	}
	return student, nil
}

// ListStudents returns all student rows ordered by id.
func (s *SQLite) ListStudents(ctx context.Context) ([]types.StudentEntry, error) {
	rows, err := s.Db.QueryContext(ctx,
		`SELECT id, first_name, last_name, middle_name, age, city
		 FROM students ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListStudents: query: %w", err)
	}
	defer rows.Close() // must close rows to free the connection

	// Returning [] instead of null in JSON is better API behaviour.
	entries := make([]types.StudentEntry, 0)
	for rows.Next() {
		var (
			entry  types.StudentEntry
			middle sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.FirstName, &entry.LastName, &middle, &entry.Age, &entry.City); err != nil {
			return nil, fmt.Errorf("ListStudents: scan row: %w", err)
		}
		entry.MiddleName = stringPtr(middle)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListStudents: rows iteration: %w", err)
	}

	return entries, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Classes
// ─────────────────────────────────────────────────────────────────────────────

func (s *SQLite) AddClass(ctx context.Context, id string, class types.ClassInfo) error {
	_, err := s.Db.ExecContext(ctx,
		`INSERT INTO classes (id, class_name, description, start_date, end_date, number_of_hours)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, class.ClassName, class.Description, class.StartDate.String(), class.EndDate.String(), class.NumberOfHours,
	)
	if isConstraint(err) {
		return storage.AlreadyExists(storage.EntityClass, id)
	}
	if err != nil {
		return fmt.Errorf("AddClass: exec: %w", err)
	}
	return nil
}

func (s *SQLite) UpdateClass(ctx context.Context, id string, class types.ClassInfo) error {
	result, err := s.Db.ExecContext(ctx,
		`UPDATE classes
		 SET class_name = ?, description = ?, start_date = ?, end_date = ?, number_of_hours = ?
		 WHERE id = ?`,
		class.ClassName, class.Description, class.StartDate.String(), class.EndDate.String(), class.NumberOfHours, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateClass: exec: %w", err)
	}
	return requireAffected(result, storage.EntityClass, id)
}

func (s *SQLite) DeleteClass(ctx context.Context, id string) error {
	result, err := s.Db.ExecContext(ctx, "DELETE FROM classes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteClass: exec: %w", err)
	}
	return requireAffected(result, storage.EntityClass, id)
}

func (s *SQLite) GetClass(ctx context.Context, id string) (types.ClassInfo, error) {
	var (
		class      types.ClassInfo
		start, end string
	)
	err := s.Db.QueryRowContext(ctx,
		`SELECT class_name, description, start_date, end_date, number_of_hours
		 FROM classes WHERE id = ? LIMIT 1`,
		id,
	).Scan(&class.ClassName, &class.Description, &start, &end, &class.NumberOfHours)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ClassInfo{}, storage.NotFound(storage.EntityClass, id)
	}
	if err != nil {
		return types.ClassInfo{}, fmt.Errorf("GetClass: scan: %w", err)
	}

	if err := parseDates(&class, start, end); err != nil {
		return types.ClassInfo{}, fmt.Errorf("GetClass: %w", err)
	}
	return class, nil
}

func (s *SQLite) ListClasses(ctx context.Context) ([]types.ClassEntry, error) {
	rows, err := s.Db.QueryContext(ctx,
		`SELECT id, class_name, description, start_date, end_date, number_of_hours
		 FROM classes ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListClasses: query: %w", err)
	}
	defer rows.Close()

	entries := make([]types.ClassEntry, 0)
	for rows.Next() {
		var (
			entry      types.ClassEntry
			start, end string
		)
		if err := rows.Scan(&entry.ID, &entry.ClassName, &entry.Description, &start, &end, &entry.NumberOfHours); err != nil {
			return nil, fmt.Errorf("ListClasses: scan row: %w", err)
		}
		if err := parseDates(&entry.ClassInfo, start, end); err != nil {
			return nil, fmt.Errorf("ListClasses: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListClasses: rows iteration: %w", err)
	}

	return entries, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Registrations
// ─────────────────────────────────────────────────────────────────────────────

// Register checks both ids and inserts the registration inside one
// transaction.
func (s *SQLite) Register(ctx context.Context, studentID, classID string) error {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Register: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	if err := exists(ctx, tx, "SELECT 1 FROM students WHERE id = ?", storage.EntityStudent, studentID); err != nil {
		return err
	}
	if err := exists(ctx, tx, "SELECT 1 FROM classes WHERE id = ?", storage.EntityClass, classID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO registrations (class_id, student_id) VALUES (?, ?)",
		classID, studentID,
	)
	if isConstraint(err) {
		return storage.AlreadyRegistered(studentID, classID)
	}
	if err != nil {
		return fmt.Errorf("Register: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Register: commit: %w", err)
	}
	return nil
}

// ClassStudents joins registrations to students in registration order.
// The inner join drops registrations whose student no longer exists.
func (s *SQLite) ClassStudents(ctx context.Context, classID string) ([]types.Student, error) {
	rows, err := s.Db.QueryContext(ctx,
		`SELECT s.first_name, s.last_name, s.middle_name, s.age, s.city
		 FROM registrations r
		 JOIN students s ON s.id = r.student_id
		 WHERE r.class_id = ?
		 ORDER BY r.seq`,
		classID,
	)
	if err != nil {
		return nil, fmt.Errorf("ClassStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("ClassStudents: scan row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ClassStudents: rows iteration: %w", err)
	}

	return students, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.Db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (types.Student, error) {
	var (
		student types.Student
		middle  sql.NullString
	)
	if err := row.Scan(&student.FirstName, &student.LastName, &middle, &student.Age, &student.City); err != nil {
		return types.Student{}, err
	}
	student.MiddleName = stringPtr(middle)
	return student, nil
}

func exists(ctx context.Context, tx *sql.Tx, query, kind, id string) error {
	var one int
	err := tx.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.NotFound(kind, id)
	}
	if err != nil {
		return fmt.Errorf("Register: lookup %s: %w", kind, err)
	}
	return nil
}

// requireAffected turns "zero rows touched" into ErrNotFound.
func requireAffected(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.NotFound(kind, id)
	}
	return nil
}

// isConstraint reports a PRIMARY KEY or UNIQUE violation.
func isConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func parseDates(class *types.ClassInfo, start, end string) error {
	var err error
	if class.StartDate, err = types.ParseDate(start); err != nil {
		return err
	}
	if class.EndDate, err = types.ParseDate(end); err != nil {
		return err
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
