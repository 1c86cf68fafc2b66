package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of payment provider webhook deliveries by event type and outcome",
		},
		[]string{"type", "outcome"},
	)

	WebhookDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "webhook_duration_seconds",
			Help: "Duration of webhook handling in seconds",
		},
		[]string{"type"},
	)

	PlanGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workout_plan_generations_total",
			Help: "Total number of workout plan generation attempts by result",
		},
		[]string{"result"},
	)
)

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
