package admin

import (
	"errors"
	"net/http"
	"time"

	"fitcoach-app/internal/domain/access"
	"fitcoach-app/internal/domain/profiles"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminProfile struct {
	UserID               string             `json:"user_id"`
	Email                string             `json:"email"`
	StripeSubscriptionID *string            `json:"stripe_subscription_id,omitempty"`
	SubscriptionActive   bool               `json:"subscription_active"`
	SubscriptionTier     *string            `json:"subscription_tier,omitempty"`
	Access               access.AccessState `json:"access"`
	LastEventAt          *time.Time         `json:"last_event_at,omitempty"`
	CreatedAt            string             `json:"created_at"`
}

type AdminStats struct {
	TotalProfiles  int            `json:"total_profiles"`
	ActiveProfiles int            `json:"active_profiles"`
	PastDue        int            `json:"past_due"`
	ActivePerTier  map[string]int `json:"active_per_tier"`
}

type Handler struct {
	store  profiles.Store
	logger *zap.Logger
}

func NewHandler(store profiles.Store, log *zap.Logger) *Handler {
	return &Handler{store: store, logger: log.Named("admin")}
}

func toAdminProfile(p *profiles.Profile) AdminProfile {
	return AdminProfile{
		UserID:               p.UserID,
		Email:                p.Email,
		StripeSubscriptionID: p.StripeSubscriptionID,
		SubscriptionActive:   p.SubscriptionActive,
		SubscriptionTier:     p.SubscriptionTier,
		Access:               access.ComputeAccessState(p),
		LastEventAt:          p.LastEventAt,
		CreatedAt:            p.CreatedAt.Format("2006-01-02 15:04"),
	}
}

func (h *Handler) ListProfiles(c *gin.Context) {
	all, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list profiles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profiles"})
		return
	}

	result := make([]AdminProfile, 0, len(all))
	for i := range all {
		result = append(result, toAdminProfile(&all[i]))
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetStats(c *gin.Context) {
	all, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list profiles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profiles"})
		return
	}

	stats := AdminStats{TotalProfiles: len(all), ActivePerTier: map[string]int{}}
	for i := range all {
		switch access.ComputeAccessState(&all[i]) {
		case access.AccessFull:
			stats.ActiveProfiles++
			tier := "No Tier"
			if all[i].SubscriptionTier != nil {
				tier = *all[i].SubscriptionTier
			}
			stats.ActivePerTier[tier]++
		case access.AccessPastDue:
			stats.PastDue++
		}
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetProfileDetails(c *gin.Context) {
	userID := c.Param("id")

	p, err := h.store.Get(c.Request.Context(), userID)
	if errors.Is(err, profiles.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      toAdminProfile(p),
		"capabilities": access.Capabilities(access.ComputeAccessState(p)),
	})
}
