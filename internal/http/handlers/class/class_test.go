package class

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-api/internal/storage/memory"
)

const algebra = `{
	"class_name": "Algebra",
	"description": "Linear algebra basics",
	"start_date": "2024-12-20",
	"end_date": "2024-09-01",
	"number_of_hours": 40
}`

func newRequest(method, id, body string) *http.Request {
	req := httptest.NewRequest(method, "/classes/"+id, strings.NewReader(body))
	req.SetPathValue("id", id)
	return req
}

func TestAdd_AcceptsReversedDates(t *testing.T) {
	store := memory.New()

	rec := httptest.NewRecorder()
	Add(store)(rec, newRequest("POST", "ALG", algebra))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Class added"}`, rec.Body.String())

	stored, err := store.GetClass(context.Background(), "ALG")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-20", stored.StartDate.String())
	assert.Equal(t, "2024-09-01", stored.EndDate.String())
}

func TestGetByID(t *testing.T) {
	store := memory.New()
	Add(store)(httptest.NewRecorder(), newRequest("POST", "ALG", algebra))

	rec := httptest.NewRecorder()
	GetByID(store)(rec, newRequest("GET", "ALG", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, algebra, rec.Body.String())

	rec = httptest.NewRecorder()
	GetByID(store)(rec, newRequest("GET", "GEO", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"Class not found"}`, rec.Body.String())
}

func TestDelete_Twice(t *testing.T) {
	store := memory.New()
	Add(store)(httptest.NewRecorder(), newRequest("POST", "ALG", algebra))

	rec := httptest.NewRecorder()
	Delete(store)(rec, newRequest("DELETE", "ALG", ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	Delete(store)(rec, newRequest("DELETE", "ALG", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdd_HoursMustBeSent(t *testing.T) {
	body := strings.Replace(algebra, `"number_of_hours": 40`, `"number_of_hours": null`, 1)

	rec := httptest.NewRecorder()
	Add(memory.New())(rec, newRequest("POST", "ALG", body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"field number_of_hours is required"}`, rec.Body.String())
}
