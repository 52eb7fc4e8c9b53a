package payments

import (
	"strings"
	"time"
)

// Payment statuses.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Payment methods accepted at the API edge.
const (
	MethodCard       = "card"
	MethodUPI        = "upi"
	MethodNetBanking = "netbanking"
	MethodWallet     = "wallet"
	MethodOther      = "other"
)

// Payment is one charge attempt against an appointment. Amounts are whole
// rupees; the gateway is charged in paise. Rows are immutable after success
// except for the refunded flag, and are never deleted: cancelling an
// appointment keeps its payment history as an audit trail.
type Payment struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patientId"`
	DoctorID      string    `json:"doctorId"`
	AppointmentID string    `json:"appointmentId"`
	Amount        int       `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transactionId"`
	Method        string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	Refunded      bool      `json:"isRefunded"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ValidMethod reports whether method is one of the accepted values.
func ValidMethod(method string) bool {
	switch method {
	case MethodCard, MethodUPI, MethodNetBanking, MethodWallet, MethodOther:
		return true
	}
	return false
}

// ProcessRequest is the body for POST /api/payments/process.
type ProcessRequest struct {
	PaymentMethodID string `json:"paymentMethodId"`
	AppointmentID   string `json:"appointmentId"`
	DoctorID        string `json:"doctorId"`
	Method          string `json:"paymentMethod"`
}

// Validate normalizes and checks the payload. The method defaults to card,
// matching what the web client submits.
func (r *ProcessRequest) Validate() error {
	r.PaymentMethodID = strings.TrimSpace(r.PaymentMethodID)
	r.AppointmentID = strings.TrimSpace(r.AppointmentID)
	r.DoctorID = strings.TrimSpace(r.DoctorID)
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))

	if r.PaymentMethodID == "" || r.AppointmentID == "" || r.DoctorID == "" {
		return ErrMissingFields
	}
	if r.Method == "" {
		r.Method = MethodCard
	}
	if !ValidMethod(r.Method) {
		return ErrBadMethod
	}
	return nil
}

// CheckoutRequest is the body for POST /api/payments/create-checkout-session.
type CheckoutRequest struct {
	AppointmentID string `json:"appointmentId"`
	DoctorID      string `json:"doctorId"`
	Amount        int    `json:"amount"`
}

// ProcessResult is returned by the payment workflow.
type ProcessResult struct {
	Payment       *Payment `json:"payment"`
	TransactionID string   `json:"transactionId"`
	Reconciled    bool     `json:"reconciled"`
}
