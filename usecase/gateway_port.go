package usecase

import "context"

// ChargeRequest is the payload sent to the external payment gateway.
type ChargeRequest struct {
	Reference   string `json:"reference"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	PayerEmail  string `json:"payer_email"`
}

// ChargeResult is the gateway's answer to a charge attempt.
type ChargeResult struct {
	TransactionID string `json:"transaction_id"`
	Succeeded     bool   `json:"succeeded"`
	Reason        string `json:"reason,omitempty"`
}

// PaymentGateway abstracts the external payment processor so use cases stay
// transport-agnostic.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
