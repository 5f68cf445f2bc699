// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: duplicate
// identifiers map to field-level validation messages, not-found values
// map to 404 responses, and so on.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist. Handlers
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when registering with a username that
// is already taken.
var ErrUsernameExists = errors.New("username already taken")

// ErrDuplicateScanCode is returned when an asset's scan code collides
// with an existing asset. Surfaced next to the scan code field.
var ErrDuplicateScanCode = errors.New("this scan code already exists in the system")

// ErrDuplicateInventoryNumber is returned when an asset's inventory
// number collides with an existing asset.
var ErrDuplicateInventoryNumber = errors.New("this inventory number already exists in the system")

// ErrTemplateNameExists is returned when creating or renaming a service
// template to a name that is already in use. Handlers translate this
// into an HTTP 409 response.
var ErrTemplateNameExists = errors.New("a service template with this name already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error 1062), raised by the unique indexes that back the
// check-then-act pre-lookups.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
