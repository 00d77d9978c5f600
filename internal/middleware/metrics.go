package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name. Incremented by
// the cache package's client hook.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kindling_redis_errors_total",
	Help: "Total number of Redis command errors",
}, []string{"command"})

// SwipesProcessed counts swipe decisions by outcome ("like", "pass", "match").
var SwipesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kindling_swipes_processed_total",
	Help: "Total number of swipe decisions processed",
}, []string{"outcome"})

// ChatProvisioningFailures counts chat-provider calls that failed while
// confirming a match. Matches are still confirmed when this grows.
var ChatProvisioningFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "kindling_chat_provisioning_failures_total",
	Help: "Total number of failed chat channel provisioning attempts",
})

var (
	promOnce sync.Once
	promMw   *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. The middleware registers collectors on the default registry, so only
// the first call creates it; later calls (additional servers in tests) reuse
// the same instance.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMw = fiberprometheus.New(service)
	})
	return promMw
}

// MetricsMiddleware returns the request-metrics Fiber handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
