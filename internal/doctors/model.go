package doctors

import (
	"net/mail"
	"strings"
	"time"
)

// Slot is a declared availability window on a given date. Times are kept as
// fixed-format strings ("10:00 AM"), matching how clients submit them.
type Slot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsBooked  bool   `json:"isBooked"`
}

// Doctor is a bookable practitioner profile.
type Doctor struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	Experience     int       `json:"experience"`
	HospitalName   string    `json:"hospitalName,omitempty"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Fees           int       `json:"fees"`
	AvailableSlots []Slot    `json:"availableSlots"`
	IsAvailable    bool      `json:"isAvailable"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateDoctorRequest is the body for POST /api/doctors/add.
type CreateDoctorRequest struct {
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Experience     int    `json:"experience"`
	HospitalName   string `json:"hospitalName"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Fees           int    `json:"fees"`
	AvailableSlots []Slot `json:"availableSlots"`
}

// Validate normalizes and checks the payload. minFee is the configured floor
// for consultation fees.
func (r *CreateDoctorRequest) Validate(minFee int) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Specialization = strings.TrimSpace(r.Specialization)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if r.Name == "" {
		return ErrMissingName
	}
	if r.Specialization == "" {
		return ErrMissingSpecialization
	}
	if strings.TrimSpace(r.Phone) == "" {
		return ErrMissingPhone
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return ErrInvalidEmail
	}
	if r.Fees < minFee {
		return ErrFeeBelowMinimum
	}
	return nil
}
