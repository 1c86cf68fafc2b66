package workouts

import (
	"encoding/json"
	"net/http"
	"strings"

	"fitcoach-app/internal/app/http/middleware"
	"fitcoach-app/internal/infra/llm"
	"fitcoach-app/internal/infra/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultDays = 7
	maxDays     = 14
)

type PlanRequest struct {
	WorkoutType string `json:"workoutType"`
	Calories    int    `json:"calories"`
	Injury      string `json:"injury"`
	TargetArea  string `json:"targetArea"`
	Time        int    `json:"time"`
	Equipment   bool   `json:"equipment"`
	Days        int    `json:"days"`
}

type Handler struct {
	completer llm.Completer
	logger    *zap.Logger
}

func NewHandler(completer llm.Completer, log *zap.Logger) *Handler {
	return &Handler{completer: completer, logger: log.Named("workouts")}
}

// GenerateWorkoutPlan is mounted behind the subscription guard.
func (h *Handler) GenerateWorkoutPlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Days <= 0 {
		req.Days = defaultDays
	}
	if req.Days > maxDays {
		req.Days = maxDays
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		h.logger.Error("failed to build prompt", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	log := h.logger.With(zap.String("user_id", c.GetString(middleware.ContextUserID)))

	content, err := h.completer.Complete(c.Request.Context(), prompt)
	if err != nil {
		log.Error("plan generation failed", zap.Error(err))
		metrics.PlanGenerations.WithLabelValues("upstream_error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	plan, ok := parsePlan(content)
	if !ok {
		log.Warn("model returned an unparseable plan", zap.Int("length", len(content)))
		metrics.PlanGenerations.WithLabelValues("parse_error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Workout plan. Please try again"})
		return
	}

	metrics.PlanGenerations.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{"workoutPlan": plan})
}

// parsePlan accepts a JSON object, optionally wrapped in a markdown fence.
func parsePlan(content string) (map[string]interface{}, bool) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	var plan map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &plan); err != nil || plan == nil {
		return nil, false
	}
	return plan, true
}
