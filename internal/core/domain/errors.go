package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidStatus  = errors.New("invalid approval status")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInternalServer = errors.New("internal server error")
)

// Authentication errors.
// InvalidCredentials is returned for both unknown email and wrong password.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrRegistrationPending  = errors.New("registration pending approval")
	ErrRegistrationRejected = errors.New("registration rejected")
)

// Identity resolution errors
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrPrincipalNotFound = errors.New("principal not found")
)

// Authorization errors
var (
	ErrForbidden = errors.New("forbidden")
)

// IsNotAuthenticated reports whether err belongs to the "log in again" class
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrPrincipalNotFound)
}

// IsNotAuthorized reports whether err belongs to the "not allowed / not yet eligible" class
func IsNotAuthorized(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrRegistrationPending) ||
		errors.Is(err, ErrRegistrationRejected)
}
