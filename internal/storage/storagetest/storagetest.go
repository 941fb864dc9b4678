// Package storagetest holds the behaviour every storage.Storage
// implementation must show. Each backend's test file calls Run with a
// constructor that returns a fresh, empty store.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
)

// NewStore builds an empty store for one subtest.
type NewStore func(t *testing.T) storage.Storage

// Student returns a valid student record whose fields derive from name.
func Student(name string) types.Student {
	return types.Student{
		FirstName: name,
		LastName:  name + "son",
		Age:       20,
		City:      "Springfield",
	}
}

// Class returns a valid class record.
func Class(name string) types.ClassInfo {
	return types.ClassInfo{
		ClassName:     name,
		Description:   name + " for beginners",
		StartDate:     types.NewDate(2024, time.September, 1),
		EndDate:       types.NewDate(2024, time.December, 20),
		NumberOfHours: 30,
	}
}

// Run executes the full behaviour suite against stores built by newStore.
func Run(t *testing.T, newStore NewStore) {
	t.Helper()

	t.Run("AddStudentTwiceConflicts", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		require.NoError(t, s.AddStudent(ctx, "1", Student("Bart")))
		err := s.AddStudent(ctx, "1", Student("Lisa"))
		require.ErrorIs(t, err, storage.ErrAlreadyExists)

		got, err := s.GetStudent(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Bart", got.FirstName, "failed add must not overwrite")
	})

	t.Run("UpdateMissingStudent", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		err := s.UpdateStudent(ctx, "ghost", Student("Casper"))
		require.ErrorIs(t, err, storage.ErrNotFound)

		_, err = s.GetStudent(ctx, "ghost")
		require.ErrorIs(t, err, storage.ErrNotFound, "failed update must not insert")
	})

	t.Run("UpdateReplacesAllFields", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		middle := "Jay"
		original := Student("Homer")
		original.MiddleName = &middle
		require.NoError(t, s.AddStudent(ctx, "1", original))

		replacement := types.Student{FirstName: "Marge", LastName: "Bouvier", Age: 39, City: "Shelbyville"}
		require.NoError(t, s.UpdateStudent(ctx, "1", replacement))

		got, err := s.GetStudent(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, replacement, got)
		assert.Nil(t, got.MiddleName, "omitted optional field must be cleared")
	})

	t.Run("DeleteStudentTwice", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		require.NoError(t, s.AddStudent(ctx, "1", Student("Bart")))
		require.NoError(t, s.DeleteStudent(ctx, "1"))
		require.ErrorIs(t, s.DeleteStudent(ctx, "1"), storage.ErrNotFound)
	})

	t.Run("ListStudentsOrderedByID", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		empty, err := s.ListStudents(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		require.NoError(t, s.AddStudent(ctx, "b", Student("Bart")))
		require.NoError(t, s.AddStudent(ctx, "a", Student("Abe")))

		list, err := s.ListStudents(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "a", list[0].ID)
		assert.Equal(t, "Abe", list[0].FirstName)
		assert.Equal(t, "b", list[1].ID)
	})

	t.Run("ClassLifecycle", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		require.NoError(t, s.AddClass(ctx, "A", Class("Art")))
		require.ErrorIs(t, s.AddClass(ctx, "A", Class("Art")), storage.ErrAlreadyExists)
		require.ErrorIs(t, s.UpdateClass(ctx, "B", Class("Biology")), storage.ErrNotFound)

		updated := Class("Advanced Art")
		updated.EndDate = types.NewDate(2025, time.June, 30)
		updated.NumberOfHours = 60
		require.NoError(t, s.UpdateClass(ctx, "A", updated))

		got, err := s.GetClass(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, updated.ClassName, got.ClassName)
		assert.Equal(t, updated.Description, got.Description)
		assert.Equal(t, "2024-09-01", got.StartDate.String())
		assert.Equal(t, "2025-06-30", got.EndDate.String())
		assert.Equal(t, 60, got.NumberOfHours)

		list, err := s.ListClasses(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "A", list[0].ID)

		require.NoError(t, s.DeleteClass(ctx, "A"))
		require.ErrorIs(t, s.DeleteClass(ctx, "A"), storage.ErrNotFound)
		_, err = s.GetClass(ctx, "A")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("StartAfterEndIsAccepted", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		backwards := Class("Time Travel")
		backwards.StartDate, backwards.EndDate = backwards.EndDate, backwards.StartDate
		require.NoError(t, s.AddClass(ctx, "T", backwards))
	})

	t.Run("RegisterOnceThenConflict", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		require.NoError(t, s.AddStudent(ctx, "S", Student("Bart")))
		require.NoError(t, s.AddClass(ctx, "C", Class("Chemistry")))

		require.NoError(t, s.Register(ctx, "S", "C"))
		require.ErrorIs(t, s.Register(ctx, "S", "C"), storage.ErrAlreadyRegistered)

		students, err := s.ClassStudents(ctx, "C")
		require.NoError(t, err)
		assert.Len(t, students, 1, "duplicate registration must not append")
	})

	t.Run("RegisterUnknownClass", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		require.ErrorIs(t, s.Register(ctx, "nobody", "nowhere"), storage.ErrNotFound)

		require.NoError(t, s.AddStudent(ctx, "S", Student("Bart")))
		require.ErrorIs(t, s.Register(ctx, "S", "nowhere"), storage.ErrNotFound)
	})

	t.Run("RegisterUnknownStudent", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		require.NoError(t, s.AddClass(ctx, "C", Class("Chemistry")))
		require.ErrorIs(t, s.Register(ctx, "nobody", "C"), storage.ErrNotFound)

		students, err := s.ClassStudents(ctx, "C")
		require.NoError(t, err)
		assert.Empty(t, students)
	})

	t.Run("ClassStudentsInRegistrationOrder", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		// ids chosen so that key order and registration order differ
		require.NoError(t, s.AddStudent(ctx, "2", Student("Milhouse")))
		require.NoError(t, s.AddStudent(ctx, "1", Student("Nelson")))
		require.NoError(t, s.AddClass(ctx, "C", Class("Chemistry")))

		require.NoError(t, s.Register(ctx, "2", "C"))
		require.NoError(t, s.Register(ctx, "1", "C"))

		students, err := s.ClassStudents(ctx, "C")
		require.NoError(t, err)
		require.Len(t, students, 2)
		assert.Equal(t, Student("Milhouse"), students[0])
		assert.Equal(t, Student("Nelson"), students[1])
	})

	t.Run("ClassStudentsWithoutRegistrations", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		require.NoError(t, s.AddClass(ctx, "C", Class("Chemistry")))

		for _, classID := range []string{"C", "does-not-exist"} {
			students, err := s.ClassStudents(ctx, classID)
			require.NoError(t, err)
			assert.NotNil(t, students, classID)
			assert.Empty(t, students, classID)
		}
	})

	t.Run("DeleteDoesNotCascade", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		require.NoError(t, s.AddStudent(ctx, "S1", Student("Bart")))
		require.NoError(t, s.AddStudent(ctx, "S2", Student("Lisa")))
		require.NoError(t, s.AddClass(ctx, "C", Class("Chemistry")))
		require.NoError(t, s.Register(ctx, "S1", "C"))
		require.NoError(t, s.Register(ctx, "S2", "C"))

		require.NoError(t, s.DeleteStudent(ctx, "S1"))
		students, err := s.ClassStudents(ctx, "C")
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "Lisa", students[0].FirstName)

		// Re-adding the student revives the dangling registration.
		require.NoError(t, s.AddStudent(ctx, "S1", Student("Bartholomew")))
		students, err = s.ClassStudents(ctx, "C")
		require.NoError(t, err)
		require.Len(t, students, 2)
		assert.Equal(t, "Bartholomew", students[0].FirstName)

		// Deleting the class keeps its registrations too.
		require.NoError(t, s.DeleteClass(ctx, "C"))
		students, err = s.ClassStudents(ctx, "C")
		require.NoError(t, err)
		assert.Len(t, students, 2)
	})

	t.Run("ConcurrentRegistrationsAreDeduplicated", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		require.NoError(t, s.AddStudent(ctx, "S", Student("Bart")))
		require.NoError(t, s.AddClass(ctx, "C", Class("Chemistry")))

		const workers = 16
		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Register(ctx, "S", "C")
				if err == nil {
					succeeded.Add(1)
					return
				}
				assert.ErrorIs(t, err, storage.ErrAlreadyRegistered)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())
		students, err := s.ClassStudents(ctx, "C")
		require.NoError(t, err)
		assert.Len(t, students, 1)
	})

	t.Run("ConcurrentAddsOneWins", func(t *testing.T) {
		s, ctx := newStore(t), context.Background()

		const workers = 16
		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
		)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := s.AddStudent(ctx, "same", Student(fmt.Sprintf("racer-%d", i))); err == nil {
					succeeded.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())
	})

	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, newStore(t).Ping(context.Background()))
	})
}
