// Package payment defines the checkout collaborator used by the
// subscription lifecycle. The engine only needs session creation; webhooks
// and real gateway integrations live outside this module.
package payment

import "context"

// CheckoutRequest describes the plan a user wants to pay for.
type CheckoutRequest struct {
	UserID     string
	PriceID    string
	PlanName   string
	AmountUSD  float64
	SuccessURL string
	CancelURL  string
}

// Session is the provider-side checkout session handed back to the client.
type Session struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// Provider creates checkout sessions with an external payment gateway.
type Provider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Session, error)
}
