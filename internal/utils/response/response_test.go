package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
	"github.com/aanand-mishra/students-api/internal/utils/request"
)

func TestStorageError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"student exists", storage.AlreadyExists(storage.EntityStudent, "1"), http.StatusBadRequest, "Student already exists"},
		{"class exists", storage.AlreadyExists(storage.EntityClass, "A"), http.StatusBadRequest, "Class already exists"},
		{"student missing", storage.NotFound(storage.EntityStudent, "1"), http.StatusNotFound, "Student not found"},
		{"class missing", storage.NotFound(storage.EntityClass, "A"), http.StatusNotFound, "Class not found"},
		{"duplicate registration", storage.AlreadyRegistered("1", "A"), http.StatusBadRequest, "Student already registered"},
		{"wrapped", fmt.Errorf("handler: %w", storage.NotFound(storage.EntityClass, "A")), http.StatusNotFound, "Class not found"},
		{"bare sentinel", storage.ErrNotFound, http.StatusNotFound, "Record not found"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := StorageError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, StatusError, body.Status)
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, "Student added")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Student added"}`, rec.Body.String())
}

func TestWriteDecodeError(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteDecodeError(rec, request.ErrEmptyBody)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"status":"error","error":"request body is empty"}`, rec.Body.String())
	})

	t.Run("validation", func(t *testing.T) {
		rec := httptest.NewRecorder()
		first, last := "Ada", "Lovelace"
		WriteDecodeError(rec, request.Validate(types.StudentPayload{FirstName: &first, LastName: &last}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "field age is required, field city is required", body.Error)
	})

	t.Run("malformed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		var v any
		WriteDecodeError(rec, json.Unmarshal([]byte("{"), &v))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
