package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapDuplicate(t *testing.T) {
	// The duplicate value itself contains "username"; only the violated
	// index name decides which field collided.
	dupEmail := errors.New("Error 1062 (23000): Duplicate entry 'username@x.com' for key 'users.uq_users_email'")
	assert.ErrorIs(t, mapDuplicate(dupEmail), ErrEmailExists)

	dupUsername := errors.New("Error 1062 (23000): Duplicate entry 'Bob' for key 'users.uq_users_username'")
	assert.ErrorIs(t, mapDuplicate(dupUsername), ErrUsernameExists)

	// A 1062 on an unrecognised index passes through untouched.
	dupOther := errors.New("Error 1062 (23000): Duplicate entry '7' for key 'users.PRIMARY'")
	assert.NotErrorIs(t, mapDuplicate(dupOther), ErrEmailExists)
	assert.NotErrorIs(t, mapDuplicate(dupOther), ErrUsernameExists)

	// Non-duplicate failures pass through.
	deadlock := errors.New("Error 1213 (40001): Deadlock found when trying to get lock")
	assert.Equal(t, deadlock, mapDuplicate(deadlock))
}
