// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used on the wire and in
// every store, e.g. "2024-09-01".
const DateLayout = "2006-01-02"

// Student represents a student record in our system.
//
// The student's ID is NOT part of the record: callers choose it and send
// it in the URL (/students/{id}).
type Student struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// MiddleName is optional. A nil pointer encodes to JSON null.
	MiddleName *string `json:"middle_name"`

	Age  int    `json:"age"`
	City string `json:"city"`
}

// ClassInfo represents a class (course) record.
// StartDate <= EndDate is deliberately not checked.
type ClassInfo struct {
	ClassName     string `json:"class_name"`
	Description   string `json:"description"`
	StartDate     Date   `json:"start_date"`
	EndDate       Date   `json:"end_date"`
	NumberOfHours int    `json:"number_of_hours"`
}

// StudentPayload is the request body for creating or replacing a student.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field is read from the request JSON.
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. On a pointer field "required" only means the key was sent
//     with a non-null value, so "" and 0 are accepted.
type StudentPayload struct {
	FirstName  *string `json:"first_name"  validate:"required"`
	LastName   *string `json:"last_name"   validate:"required"`
	MiddleName *string `json:"middle_name"`
	Age        *int    `json:"age"         validate:"required"`
	City       *string `json:"city"        validate:"required"`
}

// Student returns the record carried by a validated payload.
func (p StudentPayload) Student() Student {
	return Student{
		FirstName:  deref(p.FirstName),
		LastName:   deref(p.LastName),
		MiddleName: p.MiddleName,
		Age:        deref(p.Age),
		City:       deref(p.City),
	}
}

// ClassPayload is the request body for creating or replacing a class.
type ClassPayload struct {
	ClassName     *string `json:"class_name"      validate:"required"`
	Description   *string `json:"description"     validate:"required"`
	StartDate     *Date   `json:"start_date"      validate:"required"`
	EndDate       *Date   `json:"end_date"        validate:"required"`
	NumberOfHours *int    `json:"number_of_hours" validate:"required"`
}

// ClassInfo returns the record carried by a validated payload.
func (p ClassPayload) ClassInfo() ClassInfo {
	return ClassInfo{
		ClassName:     deref(p.ClassName),
		Description:   deref(p.Description),
		StartDate:     deref(p.StartDate),
		EndDate:       deref(p.EndDate),
		NumberOfHours: deref(p.NumberOfHours),
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// StudentEntry pairs a stored student with its caller-chosen key.
// Used by list endpoints where the key is not in the URL.
type StudentEntry struct {
	ID string `json:"id"`
	Student
}

// ClassEntry pairs a stored class with its caller-chosen key.
type ClassEntry struct {
	ID string `json:"id"`
	ClassInfo
}

// Date is a calendar date without a time-of-day component.
// It marshals to and from "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate returns the Date for the given calendar day (UTC).
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// String returns the date as "YYYY-MM-DD".
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. JSON null is a no-op, so a
// *Date field sent as null stays nil.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid date %s: expected a string", b)
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
