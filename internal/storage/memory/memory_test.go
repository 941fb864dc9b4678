package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/storage/storagetest"
)

func TestMemory(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return New()
	})
}

func TestMemory_ReturnedStudentIsACopy(t *testing.T) {
	m, ctx := New(), context.Background()

	middle := "Jay"
	student := storagetest.Student("Homer")
	student.MiddleName = &middle
	require.NoError(t, m.AddStudent(ctx, "1", student))

	middle = "changed by caller"
	got, err := m.GetStudent(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, got.MiddleName)
	assert.Equal(t, "Jay", *got.MiddleName)

	*got.MiddleName = "changed again"
	again, err := m.GetStudent(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Jay", *again.MiddleName)
}

func TestMemory_NoEmptyRegistrationSequence(t *testing.T) {
	m, ctx := New(), context.Background()

	require.NoError(t, m.AddClass(ctx, "C", storagetest.Class("Chemistry")))
	require.ErrorIs(t, m.Register(ctx, "missing", "C"), storage.ErrNotFound)

	_, ok := m.registrations["C"]
	assert.False(t, ok, "failed registration must not create a sequence")
}
