package domain

import "time"

// Booking statuses.
const (
	BookingStatusReserved  = "reserved"
	BookingStatusPaid      = "paid"
	BookingStatusCancelled = "cancelled"
)

// Booking reserves a seat on a class for a student until it is paid or cancelled.
type Booking struct {
	ID           string    `json:"id"`
	ClassID      string    `json:"class_id"`
	StudentEmail string    `json:"student_email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (b *Booking) IsPayable() bool {
	return b != nil && b.Status == BookingStatusReserved
}
