package auth

import "errors"

var (
	// ErrNotFound is returned by directory lookups that match nothing.
	ErrNotFound = errors.New("auth: not found")
	// ErrDuplicateIdentity is raised when registration hits the email
	// uniqueness constraint. Recoverable by choosing another email.
	ErrDuplicateIdentity = errors.New("auth: email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrUnauthenticated is the uniform failure for missing, invalid or
	// expired tokens and for tokens whose subject no longer exists.
	ErrUnauthenticated = errors.New("auth: unauthenticated")
	// ErrForbidden means the identity is known but its role or tenant does
	// not satisfy the operation's policy.
	ErrForbidden = errors.New("auth: forbidden")
	// ErrInvalidInput flags malformed request fields.
	ErrInvalidInput = errors.New("auth: invalid input")
	// ErrDirectoryUnavailable signals a storage fault or timeout. It is
	// never conflated with an authentication failure.
	ErrDirectoryUnavailable = errors.New("auth: directory unavailable")
)

var (
	// ErrInvalidToken indicates a token whose signature or shape failed
	// validation.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrTokenExpired indicates a structurally valid token past its expiry.
	// The distinction from ErrInvalidToken exists for logging only and is
	// never echoed to callers.
	ErrTokenExpired = errors.New("auth: token expired")
)
