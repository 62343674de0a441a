// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a ticket
// that exists but has no rides left is answered differently than a
// ticket that does not exist or belongs to someone else.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist or is not
// visible to the caller (wrong owner, already expired, not active).
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrExhausted is returned when a redemption targets a ride-counted
// ticket whose rides_remaining has reached zero.
var ErrExhausted = errors.New("no rides remaining")

// ErrAlreadyFavorited is returned when a favorite insert collides with
// an existing (user, route) pair. Handlers should translate this into
// an HTTP 409 response.
var ErrAlreadyFavorited = errors.New("route already favorited")

// ErrUsernameExists is returned when a profile update would take a
// username that belongs to a different user.
var ErrUsernameExists = errors.New("username already exists")
