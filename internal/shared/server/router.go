package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hirehub-backend/internal/applications"
	"hirehub-backend/internal/services/health"
	"hirehub-backend/internal/shared/config"
	"hirehub-backend/internal/shared/metrics"
	"hirehub-backend/internal/shared/server/middleware"
	"hirehub-backend/internal/shared/server/respond"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Config  config.Config
	Handler *applications.Handler
	Health  *health.Service
}

const applyRateGroup = "APPLY"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(applyRateLimit()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})
	deps.Handler.RegisterRoutes(api)

	return r
}

// applyRateLimit throttles the anonymous apply endpoint per client IP.
// Everything else passes through unlimited.
func applyRateLimit() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			applyRateGroup: {Rate: 1, Burst: 5},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/apply") {
				return applyRateGroup
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
