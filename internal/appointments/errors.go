package appointments

import "github.com/arogyacare/appointment-api/internal/apperr"

var (
	// ErrMissingDoctor is returned when the doctor reference is absent.
	ErrMissingDoctor = apperr.New(apperr.KindValidation, "doctorId is required")

	// ErrBadDate is returned when the date is not YYYY-MM-DD.
	ErrBadDate = apperr.New(apperr.KindValidation, "date must be formatted as YYYY-MM-DD")

	// ErrBadTime is returned when a time is not like \"10:00 AM\".
	ErrBadTime = apperr.New(apperr.KindValidation, "times must be formatted like 10:00 AM")

	// ErrBadTimeOrder is returned when the end time does not follow the start.
	ErrBadTimeOrder = apperr.New(apperr.KindValidation, "endTime must be after startTime")

	// ErrSlotTaken is the conflict error for an occupied slot.
	ErrSlotTaken = apperr.New(apperr.KindConflict, "selected time slot is already booked")

	// ErrAppointmentNotFound is returned when no appointment matches.
	ErrAppointmentNotFound = apperr.New(apperr.KindNotFound, "appointment not found")

	// ErrNotYourAppointment is returned when a patient touches someone else's booking.
	ErrNotYourAppointment = apperr.New(apperr.KindForbidden, "appointment belongs to another patient")
)
