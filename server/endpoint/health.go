package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/whispering/observability"
	"github.com/kbukum/whispering/version"
)

// HealthChecker returns the health of the service's dependencies.
type HealthChecker func(ctx context.Context) []observability.Health

// Health reports the aggregated status. A component that is down turns the
// response into a 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.NewServiceHealth(serviceName, version.Get().Version)
		if checker != nil {
			for _, h := range checker(c.Request.Context()) {
				sh.AddComponent(h)
			}
		}
		status := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, sh)
	}
}

// Liveness answers as long as the process serves HTTP. It never probes the
// providers, so a provider outage does not get the process restarted.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive", "service": serviceName})
	}
}
