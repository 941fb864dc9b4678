package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityError(t *testing.T) {
	err := NotFound(EntityClass, "A")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, `class "A": not found`, err.Error())

	var entityErr *EntityError
	require.True(t, errors.As(err, &entityErr))
	assert.Equal(t, EntityClass, entityErr.Entity)
	assert.Equal(t, "A", entityErr.ID)
}

func TestAlreadyRegistered(t *testing.T) {
	err := AlreadyRegistered("1", "A")

	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, `class "A": student "1": already registered`, err.Error())

	var entityErr *EntityError
	require.True(t, errors.As(err, &entityErr))
	assert.Equal(t, EntityStudent, entityErr.Entity)
}
