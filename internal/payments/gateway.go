package payments

import "context"

// ChargeParams describes one immediate charge. Amounts are in minor units
// (paise for INR) because that is what card networks settle in.
type ChargeParams struct {
	AmountMinor     int64
	Currency        string
	PaymentMethodID string
	Description     string
	// IdempotencyKey makes gateway retries safe; the gateway returns the
	// original result for a repeated key instead of charging twice.
	IdempotencyKey string
}

// ChargeResult is the gateway's verdict on a charge.
type ChargeResult struct {
	TransactionID string
	Succeeded     bool
	Status        string
}

// CheckoutParams describes a hosted checkout session.
type CheckoutParams struct {
	AmountMinor   int64
	Currency      string
	ProductName   string
	CustomerEmail string
	Metadata      map[string]string
}

// CheckoutSession is the hosted payment page handed back to the client.
type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// Gateway abstracts the external payment processor.
type Gateway interface {
	Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}
