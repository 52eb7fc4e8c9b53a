package doctors

import "github.com/arogyacare/appointment-api/internal/apperr"

var (
	// ErrMissingName is returned when the doctor name is absent.
	ErrMissingName = apperr.New(apperr.KindValidation, "doctor name is required")

	// ErrMissingSpecialization is returned when the specialization is absent.
	ErrMissingSpecialization = apperr.New(apperr.KindValidation, "specialization is required")

	// ErrMissingPhone is returned when the contact phone is absent.
	ErrMissingPhone = apperr.New(apperr.KindValidation, "contact phone is required")

	// ErrInvalidEmail is returned for a malformed email address.
	ErrInvalidEmail = apperr.New(apperr.KindValidation, "invalid email format")

	// ErrFeeBelowMinimum is returned when the consultation fee is under the floor.
	ErrFeeBelowMinimum = apperr.New(apperr.KindValidation, "consultation fee below minimum")

	// ErrDuplicateDoctor is returned when a (name, specialization) pair exists.
	ErrDuplicateDoctor = apperr.New(apperr.KindConflict, "doctor with this specialization already exists")

	// ErrDoctorNotFound is returned when no doctor matches.
	ErrDoctorNotFound = apperr.New(apperr.KindNotFound, "doctor not found")
)
