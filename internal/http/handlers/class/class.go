// Package class contains the HTTP handlers for the ClassInfo resource.
// They follow the same factory pattern as package student.
package class

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
	"github.com/aanand-mishra/students-api/internal/utils/request"
	"github.com/aanand-mishra/students-api/internal/utils/response"
)

// Add handles POST /classes/{id}.
//
// Request body (JSON):
//
//	{ "class_name": "Algebra", "description": "Linear algebra basics",
//	  "start_date": "2024-09-01", "end_date": "2024-12-20",
//	  "number_of_hours": 40 }
//
// A start date after the end date is accepted as-is.
func Add(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("adding a class", slog.String("id", id))

		class, ok := decode(w, r)
		if !ok {
			return
		}

		if err := storage.AddClass(r.Context(), id, class); err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		slog.Info("class added", slog.String("id", id))
		response.OK(w, "Class added")
	}
}

// Update handles PUT /classes/{id}, replacing the whole record.
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a class", slog.String("id", id))

		class, ok := decode(w, r)
		if !ok {
			return
		}

		if err := storage.UpdateClass(r.Context(), id, class); err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		slog.Info("class updated", slog.String("id", id))
		response.OK(w, "Class updated")
	}
}

// Delete handles DELETE /classes/{id}.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a class", slog.String("id", id))

		if err := storage.DeleteClass(r.Context(), id); err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		slog.Info("class deleted", slog.String("id", id))
		response.OK(w, "Class deleted")
	}
}

func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		class, err := storage.GetClass(r.Context(), id)
		if err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, class)
	}
}

func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classes, err := storage.ListClasses(r.Context())
		if err != nil {
			response.WriteStorageError(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string][]types.ClassEntry{"classes": classes})
	}
}

func decode(w http.ResponseWriter, r *http.Request) (types.ClassInfo, bool) {
	var payload types.ClassPayload

	if err := request.DecodeJSON(r, &payload); err != nil {
		response.WriteDecodeError(w, err)
		return types.ClassInfo{}, false
	}
	if err := request.Validate(payload); err != nil {
		response.WriteDecodeError(w, err)
		return types.ClassInfo{}, false
	}

	return payload.ClassInfo(), true
}
