package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command errors by operation name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LikeToggles counts like toggles by outcome ("liked" or "unliked").
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_like_toggles_total",
		Help: "Total number of like toggles by outcome",
	}, []string{"outcome"})

	// CommentsCreated counts comments accepted by the engagement engine.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_comments_created_total",
		Help: "Total number of comments created",
	})

	// ProjectViews counts project detail fetches (the views counter increments).
	ProjectViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_project_views_total",
		Help: "Total number of project detail views recorded",
	})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
