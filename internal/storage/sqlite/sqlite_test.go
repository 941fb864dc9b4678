package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()

	// A file, not ":memory:": every pooled connection to ":memory:" would
	// see its own empty database.
	s, err := New(filepath.Join(t.TempDir(), "students.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return newTestStore(t)
	})
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")
	ctx := context.Background()

	first, err := New(path)
	require.NoError(t, err)
	require.NoError(t, first.AddStudent(ctx, "1", storagetest.Student("Bart")))
	require.NoError(t, first.AddClass(ctx, "C", storagetest.Class("Chemistry")))
	require.NoError(t, first.Register(ctx, "1", "C"))
	require.NoError(t, first.Close())

	second, err := New(path)
	require.NoError(t, err)
	defer second.Close()

	students, err := second.ClassStudents(ctx, "C")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, storagetest.Student("Bart"), students[0])
}

func TestSQLite_MiddleNameRoundTrip(t *testing.T) {
	s, ctx := newTestStore(t), context.Background()

	middle := "Jojo"
	student := storagetest.Student("Bart")
	student.MiddleName = &middle
	require.NoError(t, s.AddStudent(ctx, "1", student))

	got, err := s.GetStudent(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, got.MiddleName)
	assert.Equal(t, "Jojo", *got.MiddleName)
}

func TestIsConstraint(t *testing.T) {
	assert.False(t, isConstraint(nil))
	assert.False(t, isConstraint(assert.AnError))
}
