package users

import "github.com/arogyacare/appointment-api/internal/apperr"

var (
	// ErrMissingName is returned when the first name is absent.
	ErrMissingName = apperr.New(apperr.KindValidation, "first name is required")

	// ErrInvalidEmail is returned for a malformed email address.
	ErrInvalidEmail = apperr.New(apperr.KindValidation, "invalid email format")

	// ErrWeakPassword is returned when the password is under 6 characters.
	ErrWeakPassword = apperr.New(apperr.KindValidation, "password must be at least 6 characters long")

	// ErrInvalidRole is returned for a role outside patient/doctor/admin.
	ErrInvalidRole = apperr.New(apperr.KindValidation, "invalid role")

	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = apperr.New(apperr.KindConflict, "email already exists")

	// ErrUserNotFound is returned when no account matches.
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "user not found")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = apperr.New(apperr.KindAuth, "invalid email or password")
)
