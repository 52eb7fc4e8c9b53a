package payments

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arogyacare/appointment-api/pkg/logging"
)

func TestStripeCharge_SendsFormAndParsesIntent(t *testing.T) {
	var gotForm map[string][]string
	var gotIdemKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk_test_123" {
			t.Errorf("authorization = %q", auth)
		}
		gotIdemKey = r.Header.Get("Idempotency-Key")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_3abc","status":"succeeded"}`))
	}))
	defer server.Close()

	gateway := NewStripeGateway("sk_test_123", "", "", 0, logging.Default()).WithBaseURL(server.URL)
	result, err := gateway.Charge(t.Context(), ChargeParams{
		AmountMinor:     50000,
		Currency:        "inr",
		PaymentMethodID: "pm_card_visa",
		IdempotencyKey:  "patient-1:appt-1",
	})
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if !result.Succeeded || result.TransactionID != "pi_3abc" {
		t.Errorf("unexpected result: %+v", result)
	}
	if gotIdemKey != "patient-1:appt-1" {
		t.Errorf("idempotency key = %q", gotIdemKey)
	}
	if got := gotForm["amount"]; len(got) != 1 || got[0] != "50000" {
		t.Errorf("amount = %v", gotForm["amount"])
	}
	if got := gotForm["confirm"]; len(got) != 1 || got[0] != "true" {
		t.Errorf("confirm = %v", gotForm["confirm"])
	}
	if got := gotForm["automatic_payment_methods[allow_redirects]"]; len(got) != 1 || got[0] != "never" {
		t.Errorf("allow_redirects = %v", got)
	}
}

func TestStripeCharge_RequiresActionIsNotSucceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"pi_3def","status":"requires_action"}`))
	}))
	defer server.Close()

	gateway := NewStripeGateway("sk_test_123", "", "", 0, nil).WithBaseURL(server.URL)
	result, err := gateway.Charge(t.Context(), ChargeParams{AmountMinor: 50000, Currency: "inr", PaymentMethodID: "pm_x"})
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	if result.Succeeded {
		t.Errorf("requires_action reported as success")
	}
}

func TestStripeCharge_APIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Your card was declined.","code":"card_declined"}}`))
	}))
	defer server.Close()

	gateway := NewStripeGateway("sk_test_123", "", "", 0, nil).WithBaseURL(server.URL)
	_, err := gateway.Charge(t.Context(), ChargeParams{AmountMinor: 50000, Currency: "inr", PaymentMethodID: "pm_x"})
	if err == nil || !strings.Contains(err.Error(), "card_declined") {
		t.Fatalf("expected api error with body, got %v", err)
	}
}

func TestStripeCheckout_BuildsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("line_items[0][price_data][product_data][name]"); got != "Appointment with Dr. Meera Pillai" {
			t.Errorf("product name = %q", got)
		}
		if got := r.PostForm.Get("success_url"); !strings.Contains(got, "{CHECKOUT_SESSION_ID}") {
			t.Errorf("success_url = %q", got)
		}
		_, _ = w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/c/cs_test_1"}`))
	}))
	defer server.Close()

	gateway := NewStripeGateway("sk_test_123",
		"https://app.example/success?session_id={CHECKOUT_SESSION_ID}",
		"https://app.example/cancel", 0, nil).WithBaseURL(server.URL)
	session, err := gateway.CreateCheckoutSession(t.Context(), CheckoutParams{
		AmountMinor: 50000,
		Currency:    "inr",
		ProductName: "Appointment with Dr. Meera Pillai",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if session.ID != "cs_test_1" || session.URL == "" {
		t.Errorf("unexpected session: %+v", session)
	}
}

func TestStripeDryRun_NeverCallsAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("dry run hit the API")
	}))
	defer server.Close()

	gateway := NewStripeGateway("sk_test_123", "", "", 0, nil).WithBaseURL(server.URL).WithDryRun(true)
	result, err := gateway.Charge(t.Context(), ChargeParams{AmountMinor: 50000, Currency: "inr", PaymentMethodID: "pm_x"})
	if err != nil || !result.Succeeded {
		t.Fatalf("dry run charge: %+v err=%v", result, err)
	}
	session, err := gateway.CreateCheckoutSession(t.Context(), CheckoutParams{AmountMinor: 50000, Currency: "inr"})
	if err != nil || session.URL == "" {
		t.Fatalf("dry run checkout: %+v err=%v", session, err)
	}
}
