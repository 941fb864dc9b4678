package registration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-api/internal/storage/memory"
	"github.com/aanand-mishra/students-api/internal/storage/storagetest"
)

func registerRequest(sid, cid string) *http.Request {
	req := httptest.NewRequest("POST", "/register/"+sid+"/"+cid, nil)
	req.SetPathValue("sid", sid)
	req.SetPathValue("cid", cid)
	return req
}

func listRequest(cid string) *http.Request {
	req := httptest.NewRequest("GET", "/classes/"+cid+"/students", nil)
	req.SetPathValue("cid", cid)
	return req
}

func TestRegister(t *testing.T) {
	store, ctx := memory.New(), context.Background()
	require.NoError(t, store.AddStudent(ctx, "1", storagetest.Student("Bart")))
	require.NoError(t, store.AddClass(ctx, "A", storagetest.Class("Art")))

	rec := httptest.NewRecorder()
	Register(store)(rec, registerRequest("1", "A"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Student registered to class"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Register(store)(rec, registerRequest("1", "A"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"Student already registered"}`, rec.Body.String())
}

func TestRegister_UnknownClassWithUnknownStudent(t *testing.T) {
	rec := httptest.NewRecorder()
	Register(memory.New())(rec, registerRequest("ghost", "nowhere"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListStudents(t *testing.T) {
	store, ctx := memory.New(), context.Background()
	require.NoError(t, store.AddStudent(ctx, "1", storagetest.Student("Bart")))
	require.NoError(t, store.AddClass(ctx, "A", storagetest.Class("Art")))
	require.NoError(t, store.Register(ctx, "1", "A"))

	rec := httptest.NewRecorder()
	ListStudents(store)(rec, listRequest("A"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"students":[{"first_name":"Bart","last_name":"Bartson","middle_name":null,"age":20,"city":"Springfield"}]}`,
		rec.Body.String())

	rec = httptest.NewRecorder()
	ListStudents(store)(rec, listRequest("B"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"students":[]}`, rec.Body.String())
}
