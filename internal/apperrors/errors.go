package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrTransport indicates a network or decoding failure talking to the backend.
var ErrTransport = errors.New("transport error")

// ErrBackend indicates the backend answered with an in-band failure (success=false).
var ErrBackend = errors.New("backend rejected the request")

// ErrUnauthorized indicates the backend rejected the session token.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNoSession indicates an operation that needs an authenticated session ran without one.
var ErrNoSession = errors.New("no active session")

// ErrSessionExpired indicates a persisted session token is past its expiry.
var ErrSessionExpired = errors.New("session expired")

// ErrBusy indicates a mutation was attempted while another one is still in flight.
var ErrBusy = errors.New("operation already in progress")
