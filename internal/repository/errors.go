// Package repository contains data access logic separated from HTTP
// handlers.  This file defines sentinel error values shared across the
// repositories so that handlers can map failure scenarios to HTTP
// responses without inspecting driver errors.
package repository

import "errors"

// ErrUsernameTaken is returned when a registration collides with an
// existing username.  Handlers should translate this into a conflict
// response.
var ErrUsernameTaken = errors.New("username already taken")

// ErrNotFound is returned when an update targets a row that does not
// exist for the authenticated user.  Deletes deliberately do not return
// it; removing an already absent row is treated as success.
var ErrNotFound = errors.New("not found")

// ErrUnknownCategory is returned when a task refers to a category that
// does not exist or belongs to a different user.
var ErrUnknownCategory = errors.New("unknown category")
