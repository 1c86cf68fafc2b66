package stripe

import (
	"context"
	"errors"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// Metadata keys attached at checkout and read back by the webhook.
const (
	MetadataUserID   = "userId"
	MetadataPlanType = "planType"
)

var ErrNoSubscriptionItem = errors.New("subscription has no price item")

type CheckoutRequest struct {
	UserID     string
	Email      string
	PlanType   string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// Provider is the part of the payment provider API the billing handlers use.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
	SubscriptionStatus(ctx context.Context, subscriptionID string) (string, error)
	ChangeSubscriptionPrice(ctx context.Context, subscriptionID, priceID, planType string) error
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

type StripeProvider struct {
	api *client.API
}

// NewProvider builds a provider client. backends may be nil for the live API.
func NewProvider(secretKey string, backends *stripeapi.Backends) *StripeProvider {
	return &StripeProvider{api: client.New(secretKey, backends)}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	params := &stripeapi.CheckoutSessionParams{
		Mode:               stripeapi.String(string(stripeapi.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripeapi.StringSlice([]string{"card"}),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{Price: stripeapi.String(req.PriceID), Quantity: stripeapi.Int64(1)},
		},
		SuccessURL:        stripeapi.String(req.SuccessURL),
		CancelURL:         stripeapi.String(req.CancelURL),
		ClientReferenceID: stripeapi.String(req.UserID),
		SubscriptionData: &stripeapi.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				MetadataUserID:   req.UserID,
				MetadataPlanType: req.PlanType,
			},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripeapi.String(req.Email)
	}
	params.Context = ctx
	params.AddMetadata(MetadataUserID, req.UserID)
	params.AddMetadata(MetadataPlanType, req.PlanType)

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.URL, nil
}

func (p *StripeProvider) SubscriptionStatus(ctx context.Context, subscriptionID string) (string, error) {
	params := &stripeapi.SubscriptionParams{}
	params.Context = ctx

	sub, err := p.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return "", fmt.Errorf("get subscription %s: %w", subscriptionID, err)
	}
	return ProfileStatus(sub.Status), nil
}

func (p *StripeProvider) ChangeSubscriptionPrice(ctx context.Context, subscriptionID, priceID, planType string) error {
	getParams := &stripeapi.SubscriptionParams{}
	getParams.Context = ctx

	sub, err := p.api.Subscriptions.Get(subscriptionID, getParams)
	if err != nil {
		return fmt.Errorf("get subscription %s: %w", subscriptionID, err)
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ErrNoSubscriptionItem
	}
	item := sub.Items.Data[0]

	updateParams := &stripeapi.SubscriptionParams{
		Items: []*stripeapi.SubscriptionItemsParams{
			{
				ID:    stripeapi.String(item.ID),
				Price: stripeapi.String(priceID),
			},
		},
		ProrationBehavior: stripeapi.String("create_prorations"),
	}
	updateParams.Context = ctx
	updateParams.AddMetadata(MetadataPlanType, planType)

	if _, err := p.api.Subscriptions.Update(subscriptionID, updateParams); err != nil {
		return fmt.Errorf("update subscription %s: %w", subscriptionID, err)
	}
	return nil
}

func (p *StripeProvider) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripeapi.SubscriptionCancelParams{}
	params.Context = ctx

	if _, err := p.api.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return fmt.Errorf("cancel subscription %s: %w", subscriptionID, err)
	}
	return nil
}
