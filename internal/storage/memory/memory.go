// Package memory provides the default, process-local implementation of
// storage.Storage. Everything lives in Go maps for the lifetime of the
// process: nothing survives a restart.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
)

// Memory holds the three record stores. A single RWMutex guards all of
// them because Register reads students and classes while appending to
// registrations.
type Memory struct {
	mu sync.RWMutex

	students map[string]types.Student
	classes  map[string]types.ClassInfo

	// registrations maps class id -> student ids in registration order.
	// A class with no registrations has no entry at all.
	registrations map[string][]string
}

// New returns an empty store.
func New() *Memory {
	return &Memory{
		students:      make(map[string]types.Student),
		classes:       make(map[string]types.ClassInfo),
		registrations: make(map[string][]string),
	}
}

func (m *Memory) AddStudent(_ context.Context, id string, student types.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; ok {
		return storage.AlreadyExists(storage.EntityStudent, id)
	}
	m.students[id] = cloneStudent(student)
	return nil
}

func (m *Memory) UpdateStudent(_ context.Context, id string, student types.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return storage.NotFound(storage.EntityStudent, id)
	}
	m.students[id] = cloneStudent(student)
	return nil
}

func (m *Memory) DeleteStudent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return storage.NotFound(storage.EntityStudent, id)
	}
	delete(m.students, id)
	return nil
}

func (m *Memory) GetStudent(_ context.Context, id string) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, storage.NotFound(storage.EntityStudent, id)
	}
	return cloneStudent(student), nil
}

func (m *Memory) ListStudents(_ context.Context) ([]types.StudentEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]types.StudentEntry, 0, len(m.students))
	for id, student := range m.students {
		entries = append(entries, types.StudentEntry{ID: id, Student: cloneStudent(student)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (m *Memory) AddClass(_ context.Context, id string, class types.ClassInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.classes[id]; ok {
		return storage.AlreadyExists(storage.EntityClass, id)
	}
	m.classes[id] = class
	return nil
}

func (m *Memory) UpdateClass(_ context.Context, id string, class types.ClassInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.classes[id]; !ok {
		return storage.NotFound(storage.EntityClass, id)
	}
	m.classes[id] = class
	return nil
}

func (m *Memory) DeleteClass(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.classes[id]; !ok {
		return storage.NotFound(storage.EntityClass, id)
	}
	delete(m.classes, id)
	return nil
}

func (m *Memory) GetClass(_ context.Context, id string) (types.ClassInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	class, ok := m.classes[id]
	if !ok {
		return types.ClassInfo{}, storage.NotFound(storage.EntityClass, id)
	}
	return class, nil
}

func (m *Memory) ListClasses(_ context.Context) ([]types.ClassEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]types.ClassEntry, 0, len(m.classes))
	for id, class := range m.classes {
		entries = append(entries, types.ClassEntry{ID: id, ClassInfo: class})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (m *Memory) Register(_ context.Context, studentID, classID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[studentID]; !ok {
		return storage.NotFound(storage.EntityStudent, studentID)
	}
	if _, ok := m.classes[classID]; !ok {
		return storage.NotFound(storage.EntityClass, classID)
	}
	if slices.Contains(m.registrations[classID], studentID) {
		return storage.AlreadyRegistered(studentID, classID)
	}

	// append on a nil slice creates the sequence on first registration.
	m.registrations[classID] = append(m.registrations[classID], studentID)
	return nil
}

func (m *Memory) ClassStudents(_ context.Context, classID string) ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.registrations[classID]
	students := make([]types.Student, 0, len(ids))
	for _, id := range ids {
		student, ok := m.students[id]
		if !ok {
			continue // deleted after registering
		}
		students = append(students, cloneStudent(student))
	}
	return students, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// cloneStudent copies the optional middle name so callers never share the
// pointer with the map.
func cloneStudent(s types.Student) types.Student {
	if s.MiddleName != nil {
		middle := *s.MiddleName
		s.MiddleName = &middle
	}
	return s
}
