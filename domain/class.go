package domain

import "time"

// Class listing statuses. New listings start as pending until an admin
// approves or denies them.
const (
	ClassStatusPending  = "pending"
	ClassStatusApproved = "approved"
	ClassStatusDenied   = "denied"
)

// Class represents a bookable class listing owned by an instructor.
type Class struct {
	ID              string    `json:"id"`
	InstructorEmail string    `json:"instructor_email"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	PriceCents      int64     `json:"price_cents"`
	Seats           int       `json:"seats"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c *Class) IsBookable() bool {
	return c != nil && c.Status == ClassStatusApproved && c.Seats > 0
}
