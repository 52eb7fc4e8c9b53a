package notify

import (
	"context"
	"fmt"
	"time"
)

// Sender delivers an appointment confirmation to a patient's phone.
// Callers in the booking and payment workflows treat delivery as
// fire-and-forget: a Sender error is logged and counted, never propagated.
type Sender interface {
	SendAppointmentConfirmation(ctx context.Context, to, doctorName string, at time.Time) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, to, doctorName string, at time.Time) error

func (f SenderFunc) SendAppointmentConfirmation(ctx context.Context, to, doctorName string, at time.Time) error {
	return f(ctx, to, doctorName, at)
}

// FormatConfirmation builds the confirmation text sent to patients.
func FormatConfirmation(doctorName string, at time.Time) string {
	formatted := at.Format("Monday, January 2, 2006 at 03:04 PM")
	return fmt.Sprintf("Hello! Your appointment with Dr. %s is confirmed on %s. Please be on time.", doctorName, formatted)
}

// NoopSender drops messages. Used when Twilio credentials are absent.
type NoopSender struct{}

func (NoopSender) SendAppointmentConfirmation(ctx context.Context, to, doctorName string, at time.Time) error {
	return nil
}
