// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios and map them to the
// right flash message.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// booking they do not own and they are not the admin. Handlers translate
// this into an access-denied redirect.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registering with an email address that
// is already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when registering with a username that is
// already taken.
var ErrUsernameExists = errors.New("username already exists")
