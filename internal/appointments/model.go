package appointments

import (
	"strings"
	"time"
)

// Lifecycle statuses. Cancelled is terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Payment statuses. The transition is one-way: unpaid -> paid.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Wire formats for the slot fields. Times stay fixed-format strings
// ("10:00 AM") end to end; they are validated but never converted to
// durations.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "3:04 PM"
)

// Appointment is one reserved consultation slot.
type Appointment struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patientId"`
	DoctorID      string    `json:"doctorId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	PaymentID     string    `json:"paymentId,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PatientAppointment is an appointment enriched with doctor details for the
// patient-facing list view.
type PatientAppointment struct {
	Appointment
	DoctorName           string `json:"doctorName"`
	DoctorSpecialization string `json:"doctorSpecialization"`
}

// StartsAt combines the date and start time into a wall-clock instant, used
// only for notification text. The zero time is returned on malformed input.
func (a *Appointment) StartsAt() time.Time {
	t, err := time.Parse(DateLayout+" "+TimeLayout, a.Date+" "+a.StartTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// BookRequest is the body for POST /api/appointments/book.
type BookRequest struct {
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Notes     string `json:"notes"`
}

// Validate normalizes and checks the slot fields.
func (r *BookRequest) Validate() error {
	r.DoctorID = strings.TrimSpace(r.DoctorID)
	r.Date = strings.TrimSpace(r.Date)
	r.StartTime = strings.TrimSpace(r.StartTime)
	r.EndTime = strings.TrimSpace(r.EndTime)

	if r.DoctorID == "" {
		return ErrMissingDoctor
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrBadDate
	}
	start, err := time.Parse(TimeLayout, r.StartTime)
	if err != nil {
		return ErrBadTime
	}
	end, err := time.Parse(TimeLayout, r.EndTime)
	if err != nil {
		return ErrBadTime
	}
	if !end.After(start) {
		return ErrBadTimeOrder
	}
	return nil
}
