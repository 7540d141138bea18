package domain

import "time"

// Payment statuses. Pending payments that never settle are swept to expired
// by a background job.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusExpired   = "expired"
)

// Payment records a charge attempt against a booking. The actual charge is
// executed by the external payment gateway; TransactionID references it there.
type Payment struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	PayerEmail    string    `json:"payer_email"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
