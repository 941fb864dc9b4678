package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	class := ClassInfo{
		ClassName:     "Algebra",
		Description:   "Linear algebra basics",
		StartDate:     NewDate(2024, time.September, 1),
		EndDate:       NewDate(2024, time.December, 20),
		NumberOfHours: 40,
	}

	b, err := json.Marshal(class)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"class_name": "Algebra",
		"description": "Linear algebra basics",
		"start_date": "2024-09-01",
		"end_date": "2024-12-20",
		"number_of_hours": 40
	}`, string(b))

	var decoded ClassInfo
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.True(t, decoded.StartDate.Equal(class.StartDate.Time))
	assert.True(t, decoded.EndDate.Equal(class.EndDate.Time))
}

func TestDate_UnmarshalRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a string", `20240901`},
		{"wrong layout", `"01/09/2024"`},
		{"with time", `"2024-09-01T10:00:00Z"`},
		{"impossible day", `"2024-02-30"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			assert.Error(t, d.UnmarshalJSON([]byte(tt.input)))
		})
	}
}

func TestDate_UnmarshalEscapedString(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"\u0032024-09-01"`), &d))
	assert.Equal(t, "2024-09-01", d.String())
}

func TestDate_UnmarshalNullLeavesZero(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalJSON([]byte("null")))
	assert.True(t, d.IsZero())
}

func TestStudent_MiddleNameNull(t *testing.T) {
	b, err := json.Marshal(Student{FirstName: "Ada", LastName: "Lovelace", Age: 36, City: "London"})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"first_name":"Ada","last_name":"Lovelace","middle_name":null,"age":36,"city":"London"}`,
		string(b))
}

func TestStudentEntry_FlattensRecord(t *testing.T) {
	b, err := json.Marshal(StudentEntry{ID: "7", Student: Student{FirstName: "Alan", LastName: "Turing", City: "Wilmslow"}})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":"7","first_name":"Alan","last_name":"Turing","middle_name":null,"age":0,"city":"Wilmslow"}`,
		string(b))
}

func TestStudentPayload_Student(t *testing.T) {
	var p StudentPayload
	require.NoError(t, json.Unmarshal([]byte(
		`{"first_name":"","last_name":"Lovelace","middle_name":null,"age":0,"city":"London"}`), &p))

	require.NotNil(t, p.FirstName)
	require.NotNil(t, p.Age)
	assert.Nil(t, p.MiddleName)
	assert.Equal(t, Student{FirstName: "", LastName: "Lovelace", Age: 0, City: "London"}, p.Student())
}

func TestClassPayload_NullDateStaysNil(t *testing.T) {
	var p ClassPayload
	require.NoError(t, json.Unmarshal([]byte(`{"start_date":null,"end_date":"2024-12-20"}`), &p))

	assert.Nil(t, p.StartDate)
	require.NotNil(t, p.EndDate)
	assert.Nil(t, p.NumberOfHours)
	assert.Equal(t, "2024-12-20", p.ClassInfo().EndDate.String())
}
