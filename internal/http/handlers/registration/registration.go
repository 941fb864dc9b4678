// Package registration contains the handlers that link students to classes.
package registration

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
	"github.com/aanand-mishra/students-api/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// Register handles POST /register/{sid}/{cid}
// Appends the student to the class's registration list. No body.
//
// Error responses:
//
//	404 Not Found    — unknown student (checked first) or unknown class
//	400 Bad Request  — the student is already registered to the class
//
// ─────────────────────────────────────────────────────────────────────────────
func Register(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, classID := r.PathValue("sid"), r.PathValue("cid")
		slog.Info("registering a student",
			slog.String("student_id", studentID),
			slog.String("class_id", classID))

		if err := storage.Register(r.Context(), studentID, classID); err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		slog.Info("student registered",
			slog.String("student_id", studentID),
			slog.String("class_id", classID))
		response.OK(w, "Student registered to class")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ListStudents handles GET /classes/{cid}/students
// Returns the full records of the registered students in registration
// order. A class nobody registered to (or that does not exist) gives an
// empty list, never a 404:
//
//	{ "students": [] }
//
// ─────────────────────────────────────────────────────────────────────────────
func ListStudents(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := r.PathValue("cid")
		slog.Info("listing class students", slog.String("class_id", classID))

		students, err := storage.ClassStudents(r.Context(), classID)
		if err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string][]types.Student{"students": students})
	}
}
