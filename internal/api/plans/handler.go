package plans

import (
	"net/http"

	"fitcoach-app/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *plans.Catalog
}

func NewHandler(catalog *plans.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// ListPlans returns the offered plans. Plans without a configured price are
// flagged so the subscribe page can disable them.
func (h *Handler) ListPlans(c *gin.Context) {
	type planDTO struct {
		plans.Plan
		Available bool `json:"available"`
	}

	all := h.catalog.All()
	out := make([]planDTO, 0, len(all))
	for _, p := range all {
		out = append(out, planDTO{Plan: p, Available: p.StripePriceID != ""})
	}

	c.JSON(http.StatusOK, gin.H{"plans": out})
}
