package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripeapi "github.com/stripe/stripe-go/v75"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *StripeProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
		URL:               stripeapi.String(srv.URL),
		MaxNetworkRetries: stripeapi.Int64(0),
		LeveledLogger:     &stripeapi.LeveledLogger{Level: stripeapi.LevelNull},
	})
	return NewProvider("sk_test_123", &stripeapi.Backends{API: backend, Connect: backend, Uploads: backend})
}

func TestStripeProvider_CreateCheckoutSession(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.NoError(t, r.ParseForm())

		assert.Equal(t, "subscription", r.Form.Get("mode"))
		assert.Equal(t, "price_m", r.Form.Get("line_items[0][price]"))
		assert.Equal(t, "u1", r.Form.Get("client_reference_id"))
		assert.Equal(t, "u1", r.Form.Get("metadata[userId]"))
		assert.Equal(t, "month", r.Form.Get("metadata[planType]"))
		assert.Equal(t, "month", r.Form.Get("subscription_data[metadata][planType]"))
		assert.Equal(t, "u1@example.com", r.Form.Get("customer_email"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_1","object":"checkout.session","url":"https://checkout.example/cs_1"}`))
	})

	url, err := p.CreateCheckoutSession(context.Background(), CheckoutRequest{
		UserID:     "u1",
		Email:      "u1@example.com",
		PlanType:   "month",
		PriceID:    "price_m",
		SuccessURL: "http://localhost:3000/?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "http://localhost:3000/subscribe",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/cs_1", url)
}

func TestStripeProvider_CreateCheckoutSession_Error(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such price"}}`))
	})

	_, err := p.CreateCheckoutSession(context.Background(), CheckoutRequest{UserID: "u1", PriceID: "price_x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create checkout session")
}

func TestStripeProvider_ChangeSubscriptionPrice(t *testing.T) {
	var updated bool
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscriptions/sub_1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":"sub_1","object":"subscription","status":"active",
				"items":{"object":"list","data":[{"id":"si_1","object":"subscription_item","price":{"id":"price_m","object":"price"}}]}}`))
		case http.MethodPost:
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "si_1", r.Form.Get("items[0][id]"))
			assert.Equal(t, "price_y", r.Form.Get("items[0][price]"))
			assert.Equal(t, "year", r.Form.Get("metadata[planType]"))
			assert.Equal(t, "create_prorations", r.Form.Get("proration_behavior"))
			updated = true
			_, _ = w.Write([]byte(`{"id":"sub_1","object":"subscription","status":"active"}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	require.NoError(t, p.ChangeSubscriptionPrice(context.Background(), "sub_1", "price_y", "year"))
	assert.True(t, updated)
}

func TestStripeProvider_ChangeSubscriptionPrice_NoItems(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sub_1","object":"subscription","status":"active","items":{"object":"list","data":[]}}`))
	})

	err := p.ChangeSubscriptionPrice(context.Background(), "sub_1", "price_y", "year")
	assert.ErrorIs(t, err, ErrNoSubscriptionItem)
}

func TestStripeProvider_SubscriptionStatus(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sub_1","object":"subscription","status":"unpaid"}`))
	})

	status, err := p.SubscriptionStatus(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.Equal(t, "past_due", status)
}

func TestStripeProvider_CancelSubscription(t *testing.T) {
	var called bool
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/subscriptions/sub_1", r.URL.Path)
		called = true
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sub_1","object":"subscription","status":"canceled"}`))
	})

	require.NoError(t, p.CancelSubscription(context.Background(), "sub_1"))
	assert.True(t, called)
}
