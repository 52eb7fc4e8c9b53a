package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/arogyacare/appointment-api/pkg/logging"
)

var stripeTracer = otel.Tracer("arogya.internal.payments.stripe")

// StripeGateway charges cards through Stripe PaymentIntents and creates
// hosted Checkout Sessions. It talks to the form-encoded REST API directly.
type StripeGateway struct {
	secretKey  string
	successURL string
	cancelURL  string
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *logging.Logger
	dryRun     bool
}

// NewStripeGateway creates a Stripe-backed gateway. The success and cancel
// URLs may carry a {CHECKOUT_SESSION_ID} placeholder which Stripe fills in.
func NewStripeGateway(secretKey, successURL, cancelURL string, timeout time.Duration, logger *logging.Logger) *StripeGateway {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &StripeGateway{
		secretKey:  secretKey,
		successURL: successURL,
		cancelURL:  cancelURL,
		baseURL:    "https://api.stripe.com",
		apiVersion: "2024-12-18.acacia",
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithBaseURL overrides the Stripe API base URL (for testing).
func (g *StripeGateway) WithBaseURL(baseURL string) *StripeGateway {
	if baseURL != "" {
		g.baseURL = strings.TrimRight(baseURL, "/")
	}
	return g
}

// WithDryRun enables dry-run mode (fabricated transaction ids, no API calls).
func (g *StripeGateway) WithDryRun(enabled bool) *StripeGateway {
	g.dryRun = enabled
	return g
}

// Charge creates and confirms a PaymentIntent in one round trip. Redirects
// are disabled; a method that needs one comes back as not succeeded.
func (g *StripeGateway) Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error) {
	ctx, span := stripeTracer.Start(ctx, "stripe.create_payment_intent")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("arogya.amount_minor", params.AmountMinor),
		attribute.String("arogya.currency", params.Currency),
	)

	if g.dryRun {
		fakeID := "pi_dryrun_" + uuid.NewString()[:8]
		g.logger.Info("stripe dry run: skipping payment intent",
			"amount_minor", params.AmountMinor, "currency", params.Currency)
		return &ChargeResult{TransactionID: fakeID, Succeeded: true, Status: "succeeded"}, nil
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.AmountMinor, 10))
	form.Set("currency", params.Currency)
	form.Set("payment_method", params.PaymentMethodID)
	form.Set("confirm", "true")
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("automatic_payment_methods[allow_redirects]", "never")
	if params.Description != "" {
		form.Set("description", params.Description)
	}

	var parsed stripePaymentIntent
	if err := g.post(ctx, "/v1/payment_intents", form, params.IdempotencyKey, &parsed); err != nil {
		return nil, err
	}
	if parsed.ID == "" {
		return nil, fmt.Errorf("payments: stripe response missing intent id")
	}
	return &ChargeResult{
		TransactionID: parsed.ID,
		Succeeded:     parsed.Status == "succeeded",
		Status:        parsed.Status,
	}, nil
}

// CreateCheckoutSession builds a single-line-item hosted checkout page.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	ctx, span := stripeTracer.Start(ctx, "stripe.create_checkout_session")
	defer span.End()
	span.SetAttributes(attribute.Int64("arogya.amount_minor", params.AmountMinor))

	if g.dryRun {
		fakeID := "cs_dryrun_" + uuid.NewString()[:8]
		g.logger.Info("stripe dry run: skipping checkout session",
			"amount_minor", params.AmountMinor)
		return &CheckoutSession{
			ID:  fakeID,
			URL: "https://checkout.stripe.com/dry-run/" + fakeID,
		}, nil
	}

	name := strings.TrimSpace(params.ProductName)
	if name == "" {
		name = "Doctor Appointment Fee"
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountMinor, 10))
	form.Set("line_items[0][price_data][product_data][name]", name)
	form.Set("line_items[0][quantity]", "1")
	if g.successURL != "" {
		form.Set("success_url", g.successURL)
	}
	if g.cancelURL != "" {
		form.Set("cancel_url", g.cancelURL)
	}
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	for key, value := range params.Metadata {
		form.Set("metadata["+key+"]", value)
	}

	var parsed stripeCheckoutSession
	if err := g.post(ctx, "/v1/checkout/sessions", form, "", &parsed); err != nil {
		return nil, err
	}
	if parsed.URL == "" {
		return nil, fmt.Errorf("payments: stripe response missing checkout url")
	}
	return &CheckoutSession{ID: parsed.ID, URL: parsed.URL}, nil
}

func (g *StripeGateway) post(ctx context.Context, path string, form url.Values, idempotencyKey string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("payments: stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Stripe-Version", g.apiVersion)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payments: stripe http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("payments: stripe api status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("payments: stripe decode: %w", err)
	}
	return nil
}

// stripePaymentIntent is the subset of Stripe's PaymentIntent we need.
type stripePaymentIntent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// stripeCheckoutSession is the subset of Stripe's Checkout Session we need.
type stripeCheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
