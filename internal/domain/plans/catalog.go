package plans

import "strings"

// Plan types double as the stored subscription tier.
const (
	TypeWeek  = "week"
	TypeMonth = "month"
	TypeYear  = "year"
)

type Plan struct {
	Type          string   `json:"interval"`
	Name          string   `json:"name"`
	Amount        float64  `json:"amount"`
	Currency      string   `json:"currency"`
	IsPopular     bool     `json:"isPopular,omitempty"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
	StripePriceID string   `json:"-"`
}

// Catalog maps plan types to provider prices.
type Catalog struct {
	plans []Plan
}

// NewCatalog builds the offered plans. Empty price ids leave the plan listed
// but not purchasable.
func NewCatalog(weeklyPriceID, monthlyPriceID, yearlyPriceID string) *Catalog {
	return &Catalog{plans: []Plan{
		{
			Type:          TypeWeek,
			Name:          "Weekly Plan",
			Amount:        9.99,
			Currency:      "USD",
			Description:   "Great if you want to try the service before committing longer",
			Features:      []string{"Unlimited AI plans", "Cancel Anytime", "AI Insights"},
			StripePriceID: weeklyPriceID,
		},
		{
			Type:          TypeMonth,
			Name:          "Monthly Plan",
			Amount:        39.99,
			Currency:      "USD",
			IsPopular:     true,
			Description:   "Perfect for ongoing, month-to-month planning",
			Features:      []string{"Unlimited AI plans", "Cancel Anytime", "AI Insights and priority"},
			StripePriceID: monthlyPriceID,
		},
		{
			Type:          TypeYear,
			Name:          "Yearly Plan",
			Amount:        139.99,
			Currency:      "USD",
			Description:   "Best value for long-term goals",
			Features:      []string{"Unlimited AI plans", "Cancel Anytime", "AI Insights"},
			StripePriceID: yearlyPriceID,
		},
	}}
}

func (c *Catalog) All() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// PriceID returns the provider price for a plan type, or "" when the type is
// unknown or has no configured price.
func (c *Catalog) PriceID(planType string) string {
	if p, ok := c.Lookup(planType); ok {
		return p.StripePriceID
	}
	return ""
}

func (c *Catalog) Lookup(planType string) (Plan, bool) {
	t := strings.ToLower(strings.TrimSpace(planType))
	for _, p := range c.plans {
		if p.Type == t {
			return p, true
		}
	}
	return Plan{}, false
}

// TypeForPrice is the reverse of PriceID.
func (c *Catalog) TypeForPrice(priceID string) string {
	if priceID == "" {
		return ""
	}
	for _, p := range c.plans {
		if p.StripePriceID == priceID {
			return p.Type
		}
	}
	return ""
}
