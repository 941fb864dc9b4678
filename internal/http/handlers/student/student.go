// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a store.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
//	router.HandleFunc("POST /students/{id}", student.Add(storage))
//	//                                       ^^^^^^^^^^^^^^^^^^^^
//	//                     Add(storage) is called ONCE at startup.
//	//                     It returns a handler func which is called
//	//                     on EVERY incoming request.
package student

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
	"github.com/aanand-mishra/students-api/internal/utils/request"
	"github.com/aanand-mishra/students-api/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// Add handles POST /students/{id}
// Stores a new student under the id taken from the URL.
//
// Request body (JSON):
//
//	{ "first_name": "Rakesh", "last_name": "Kumar", "middle_name": null,
//	  "age": 35, "city": "Pune" }
//
// Success response (200 OK):
//
//	{ "message": "Student added" }
//
// Error responses:
//
//	400 Bad Request  — the id is already taken
//	422 Unprocessable — empty body, malformed JSON or a missing field
//
// ─────────────────────────────────────────────────────────────────────────────
func Add(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("adding a student", slog.String("id", id))

		student, ok := decode(w, r)
		if !ok {
			return
		}

		if err := storage.AddStudent(r.Context(), id, student); err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		slog.Info("student added", slog.String("id", id))
		response.OK(w, "Student added")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/{id}
// Replaces every field of an existing student: fields left out of the body
// are NOT kept from the old record.
//
// Error responses:
//
//	404 Not Found    — no student with that id
//	422 Unprocessable — malformed JSON or failed validation
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		student, ok := decode(w, r)
		if !ok {
			return
		}

		if err := storage.UpdateStudent(r.Context(), id, student); err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.OK(w, "Student updated")
	}
}

// Delete handles DELETE /students/{id}. Registrations that mention the
// student are kept.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		if err := storage.DeleteStudent(r.Context(), id); err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.OK(w, "Student deleted")
	}
}

// GetByID handles GET /students/{id}.
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		student, err := storage.GetStudent(r.Context(), id)
		if err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /students.
//
//	{ "students": [ { "id": "1", "first_name": "Rakesh", ... } ] }
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.ListStudents(r.Context())
		if err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string][]types.StudentEntry{"students": students})
	}
}

// decode reads and validates a Student body. On failure it has already
// written the response and returns false.
func decode(w http.ResponseWriter, r *http.Request) (types.Student, bool) {
	var payload types.StudentPayload

	if err := request.DecodeJSON(r, &payload); err != nil {
		response.WriteDecodeError(w, err)
		return types.Student{}, false
	}
	if err := request.Validate(payload); err != nil {
		response.WriteDecodeError(w, err)
		return types.Student{}, false
	}

	return payload.Student(), true
}
