package domain

import "errors"

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// Specific errors wrap a kind so callers can match either.
var (
	ErrUserNotFound       = wrapKind(ErrNotFound, "user not found")
	ErrMembershipNotFound = wrapKind(ErrNotFound, "membership not found")
	ErrUserAlreadyExists  = wrapKind(ErrConflict, "user already exists")
	ErrCannotDeleteSelf   = wrapKind(ErrInvalidInput, "cannot delete your own account")
	ErrInvalidChannel     = wrapKind(ErrInvalidInput, "unknown check-in channel")
	ErrInvalidQRPayload   = wrapKind(ErrInvalidInput, "invalid QR payload")
	ErrInvalidCredentials = wrapKind(ErrUnauthorized, "invalid credentials")
	ErrTokenExpired       = wrapKind(ErrUnauthorized, "token expired")
	ErrTokenInvalid       = wrapKind(ErrUnauthorized, "token invalid")
	ErrTokenRevoked       = wrapKind(ErrUnauthorized, "token revoked")
	ErrAdminRequired      = wrapKind(ErrForbidden, "admin role required")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func wrapKind(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}
