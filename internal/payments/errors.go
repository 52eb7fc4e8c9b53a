package payments

import "github.com/arogyacare/appointment-api/internal/apperr"

var (
	// ErrMissingFields is returned when a required field is absent.
	ErrMissingFields = apperr.New(apperr.KindValidation, "missing required fields")

	// ErrBadMethod is returned for an unknown payment method.
	ErrBadMethod = apperr.New(apperr.KindValidation, "invalid payment method")

	// ErrBadAmount is returned for a non-positive checkout amount.
	ErrBadAmount = apperr.New(apperr.KindValidation, "amount must be positive")

	// ErrNotCompleted is returned when the gateway does not confirm the charge.
	ErrNotCompleted = apperr.New(apperr.KindPayment, "payment not completed")

	// ErrInFlight is returned while another charge for the same appointment
	// holds the idempotency reservation.
	ErrInFlight = apperr.New(apperr.KindConflict, "a payment for this appointment is already in progress")

	// ErrDuplicateTransaction is returned when a transaction id is reused.
	ErrDuplicateTransaction = apperr.New(apperr.KindConflict, "transaction id already recorded")

	// ErrPaymentNotFound is returned when no payment matches.
	ErrPaymentNotFound = apperr.New(apperr.KindNotFound, "payment not found")
)
