package transport

type SessionRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type RegisterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ClassRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Seats       int    `json:"seats"`
}

type ClassStatusRequest struct {
	Status string `json:"status"`
}

type BookingRequest struct {
	ClassID string `json:"class_id"`
}

type PaymentRequest struct {
	BookingID string `json:"booking_id"`
}
