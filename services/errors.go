// Error sentinels shared across services. Higher layers such as
// controllers use errors.Is against these values to pick an HTTP
// status, so services must wrap rather than replace them.
package services

import "errors"

// ErrInvalidArgument is returned when a caller passes bad input to a
// core operation. It is never retried.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrNotFound is returned when a referenced session, profile or
// document is absent.
var ErrNotFound = errors.New("not found")

// ErrAccessDenied is returned when the calling identity is not a
// member of the session it tries to read or subscribe to.
var ErrAccessDenied = errors.New("access denied")

// ErrAlreadyExists is returned by Create when a document already
// exists at the target path. Session creation retries it internally
// with a fresh id; elsewhere it surfaces to the caller.
var ErrAlreadyExists = errors.New("already exists")

// ErrStoreUnavailable wraps transient store I/O failures. Callers may
// retry; the services themselves do not.
var ErrStoreUnavailable = errors.New("store unavailable")
