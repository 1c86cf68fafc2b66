package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitcoach-app/internal/app/http/middleware"
	"fitcoach-app/internal/domain/plans"
	"fitcoach-app/internal/domain/profiles"
	"fitcoach-app/internal/domain/profiles/profilestest"
	stripeinfra "fitcoach-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeProvider struct {
	checkout     *stripeinfra.CheckoutRequest
	changedTo    string
	canceled     string
	status       string
	err          error
	statusErr    error
	checkoutURL  string
	providerHits int
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, req stripeinfra.CheckoutRequest) (string, error) {
	f.providerHits++
	f.checkout = &req
	return f.checkoutURL, f.err
}

func (f *fakeProvider) SubscriptionStatus(_ context.Context, _ string) (string, error) {
	f.providerHits++
	return f.status, f.statusErr
}

func (f *fakeProvider) ChangeSubscriptionPrice(_ context.Context, _ string, priceID, _ string) error {
	f.providerHits++
	if f.err != nil {
		return f.err
	}
	f.changedTo = priceID
	return nil
}

func (f *fakeProvider) CancelSubscription(_ context.Context, subscriptionID string) error {
	f.providerHits++
	if f.err != nil {
		return f.err
	}
	f.canceled = subscriptionID
	return nil
}

func strPtr(s string) *string { return &s }

func subscribed(userID, subscriptionID, tier string, active bool) profiles.Profile {
	return profiles.Profile{
		UserID:               userID,
		StripeSubscriptionID: strPtr(subscriptionID),
		SubscriptionActive:   active,
		SubscriptionTier:     strPtr(tier),
	}
}

func newTestRouter(t *testing.T, provider *fakeProvider, store profiles.Store, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(provider, store, plans.NewCatalog("price_w", "price_m", "price_y"), "https://app.test", zaptest.NewLogger(t))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
			c.Set(middleware.ContextEmail, userID+"@example.test")
		}
	})
	r.POST("/api/checkout", h.CreateCheckoutSession)
	r.GET("/api/profile", h.GetProfile)
	r.GET("/api/profile/subscription-status", h.GetSubscriptionStatus)
	r.POST("/api/profile/change-plan", h.ChangePlan)
	r.POST("/api/profile/unsubscribe", h.Unsubscribe)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCheckoutSession(t *testing.T) {
	t.Run("creates session for known plan", func(t *testing.T) {
		provider := &fakeProvider{checkoutURL: "https://checkout.stripe.test/cs_1"}
		store := profilestest.New()
		r := newTestRouter(t, provider, store, "u1")

		w := doJSON(r, http.MethodPost, "/api/checkout", map[string]string{"planType": "Month"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"url":"https://checkout.stripe.test/cs_1"}`, w.Body.String())
		require.NotNil(t, provider.checkout)
		assert.Equal(t, "u1", provider.checkout.UserID)
		assert.Equal(t, "month", provider.checkout.PlanType)
		assert.Equal(t, "price_m", provider.checkout.PriceID)
		assert.Equal(t, "https://app.test/subscribe", provider.checkout.CancelURL)

		p, ok := store.Snapshot("u1")
		require.True(t, ok)
		assert.False(t, p.SubscriptionActive)
		assert.Nil(t, p.StripeSubscriptionID)
	})

	tests := []struct {
		name   string
		userID string
		body   interface{}
		status int
	}{
		{"unknown plan", "u1", map[string]string{"planType": "decade"}, http.StatusBadRequest},
		{"missing plan", "u1", map[string]string{}, http.StatusBadRequest},
		{"anonymous", "", map[string]string{"planType": "week"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{}
			r := newTestRouter(t, provider, profilestest.New(), tt.userID)

			w := doJSON(r, http.MethodPost, "/api/checkout", tt.body)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, 0, provider.providerHits)
		})
	}

	t.Run("provider failure", func(t *testing.T) {
		provider := &fakeProvider{err: errors.New("card_declined")}
		r := newTestRouter(t, provider, profilestest.New(), "u1")

		w := doJSON(r, http.MethodPost, "/api/checkout", map[string]string{"planType": "year"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetSubscriptionStatus(t *testing.T) {
	t.Run("subscribed user", func(t *testing.T) {
		provider := &fakeProvider{status: "active"}
		store := profilestest.New(subscribed("u1", "sub_1", "month", true))
		r := newTestRouter(t, provider, store, "u1")

		w := doJSON(r, http.MethodGet, "/api/profile/subscription-status", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Subscription SubscriptionDTO `json:"subscription"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Subscription.SubscriptionActive)
		assert.Equal(t, "month", *resp.Subscription.SubscriptionTier)
		assert.Equal(t, "active", resp.Subscription.Status)
		assert.Equal(t, "full", string(resp.Subscription.Access))
	})

	t.Run("new user is bootstrapped", func(t *testing.T) {
		provider := &fakeProvider{}
		store := profilestest.New()
		r := newTestRouter(t, provider, store, "u2")

		w := doJSON(r, http.MethodGet, "/api/profile/subscription-status", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"none"`)
		assert.Contains(t, w.Body.String(), `"access":"locked"`)
		assert.Equal(t, 0, provider.providerHits)

		p, ok := store.Snapshot("u2")
		require.True(t, ok)
		assert.Equal(t, "u2@example.test", p.Email)
	})

	t.Run("provider failure degrades", func(t *testing.T) {
		provider := &fakeProvider{statusErr: errors.New("timeout")}
		store := profilestest.New(subscribed("u1", "sub_1", "week", false))
		r := newTestRouter(t, provider, store, "u1")

		w := doJSON(r, http.MethodGet, "/api/profile/subscription-status", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"unknown"`)
		assert.Contains(t, w.Body.String(), `"access":"past_due"`)
	})
}

func TestGetProfile(t *testing.T) {
	store := profilestest.New()
	r := newTestRouter(t, &fakeProvider{}, store, "u7")

	w := doJSON(r, http.MethodGet, "/api/profile", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"u7"`)
	_, ok := store.Snapshot("u7")
	assert.True(t, ok)
}

func TestChangePlan(t *testing.T) {
	t.Run("swaps price then stores tier", func(t *testing.T) {
		provider := &fakeProvider{}
		store := profilestest.New(subscribed("u1", "sub_1", "month", true))
		r := newTestRouter(t, provider, store, "u1")

		w := doJSON(r, http.MethodPost, "/api/profile/change-plan", map[string]string{"newPlan": "year"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "price_y", provider.changedTo)
		p, _ := store.Snapshot("u1")
		assert.Equal(t, "year", *p.SubscriptionTier)
		assert.True(t, p.SubscriptionActive)
		assert.Equal(t, "sub_1", *p.StripeSubscriptionID)
	})

	t.Run("same plan is a noop", func(t *testing.T) {
		provider := &fakeProvider{}
		store := profilestest.New(subscribed("u1", "sub_1", "month", true))
		r := newTestRouter(t, provider, store, "u1")

		w := doJSON(r, http.MethodPost, "/api/profile/change-plan", map[string]string{"newPlan": "month"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Already on this plan")
		assert.Equal(t, 0, provider.providerHits)
	})

	t.Run("provider failure leaves tier", func(t *testing.T) {
		provider := &fakeProvider{err: stripeinfra.ErrNoSubscriptionItem}
		store := profilestest.New(subscribed("u1", "sub_1", "month", true))
		r := newTestRouter(t, provider, store, "u1")

		w := doJSON(r, http.MethodPost, "/api/profile/change-plan", map[string]string{"newPlan": "week"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		p, _ := store.Snapshot("u1")
		assert.Equal(t, "month", *p.SubscriptionTier)
	})

	tests := []struct {
		name string
		seed []profiles.Profile
		body map[string]string
		code int
	}{
		{"no record", nil, map[string]string{"newPlan": "week"}, http.StatusBadRequest},
		{"inactive record", []profiles.Profile{subscribed("u1", "sub_1", "month", false)}, map[string]string{"newPlan": "week"}, http.StatusBadRequest},
		{"unknown plan", []profiles.Profile{subscribed("u1", "sub_1", "month", true)}, map[string]string{"newPlan": "daily"}, http.StatusBadRequest},
		{"missing plan", []profiles.Profile{subscribed("u1", "sub_1", "month", true)}, map[string]string{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{}
			r := newTestRouter(t, provider, profilestest.New(tt.seed...), "u1")

			w := doJSON(r, http.MethodPost, "/api/profile/change-plan", tt.body)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, 0, provider.providerHits)
		})
	}
}

func TestUnsubscribe(t *testing.T) {
	t.Run("cancels at provider without touching record", func(t *testing.T) {
		provider := &fakeProvider{}
		store := profilestest.New(subscribed("u1", "sub_1", "month", true))
		r := newTestRouter(t, provider, store, "u1")

		w := doJSON(r, http.MethodPost, "/api/profile/unsubscribe", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "sub_1", provider.canceled)
		p, _ := store.Snapshot("u1")
		assert.True(t, p.SubscriptionActive)
		assert.Equal(t, "sub_1", *p.StripeSubscriptionID)
	})

	t.Run("past due can still cancel", func(t *testing.T) {
		provider := &fakeProvider{}
		r := newTestRouter(t, provider, profilestest.New(subscribed("u1", "sub_1", "month", false)), "u1")

		w := doJSON(r, http.MethodPost, "/api/profile/unsubscribe", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("nothing to cancel", func(t *testing.T) {
		provider := &fakeProvider{}
		r := newTestRouter(t, provider, profilestest.New(profiles.Profile{UserID: "u1"}), "u1")

		w := doJSON(r, http.MethodPost, "/api/profile/unsubscribe", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, provider.providerHits)
	})

	t.Run("store failure", func(t *testing.T) {
		store := profilestest.New(subscribed("u1", "sub_1", "month", true))
		store.Err = errors.New("db down")
		r := newTestRouter(t, &fakeProvider{}, store, "u1")

		w := doJSON(r, http.MethodPost, "/api/profile/unsubscribe", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
