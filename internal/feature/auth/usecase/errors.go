// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrValidation is returned when required input is missing or malformed.
	// It is raised before any storage access.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmail is returned when an identity with the same email already exists.
	// Registration reports both the pre-check and a storage-level unique violation with it.
	ErrDuplicateEmail = errors.New("this email is already registered")

	// ErrAccountNotFound is returned by Login when no identity matches the email.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredentials is returned by Login when the password does not match.
	ErrInvalidCredentials = errors.New("invalid password provided")

	// ErrForbidden is returned when the caller does not own the target identity.
	ErrForbidden = errors.New("forbidden")

	// ErrIdentityNotFound is returned by the credential store when no identity matches.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrStoreUnavailable is returned when the credential store cannot be reached.
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// ErrStorePermissionDenied is returned when the store rejects the operation
	// because its own credentials lack the required privileges.
	ErrStorePermissionDenied = errors.New("credential store permission denied")
)
