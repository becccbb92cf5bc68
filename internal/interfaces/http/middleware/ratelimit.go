package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"licentia/internal/domain/audit"
	"licentia/internal/infrastructure/ratelimit"
	"licentia/internal/shared/config"
	apperrors "licentia/internal/shared/errors"
	"licentia/internal/shared/logger"
	"licentia/internal/shared/utils"
)

// RateLimit enforces one endpoint-class rule keyed by client IP. The
// limiter itself decides the backend (Redis or relational); when it fails
// outright the request is allowed through rather than hard-failing all
// traffic on a storage outage.
func RateLimit(
	limiter ratelimit.RateLimiter,
	endpoint string,
	rule config.RateLimitRule,
	trail *audit.Trail,
	log logger.Interface,
) gin.HandlerFunc {
	window := time.Duration(rule.WindowSeconds) * time.Second

	return func(c *gin.Context) {
		decision, err := limiter.Check(
			c.Request.Context(),
			ratelimit.SubjectIP,
			c.ClientIP(),
			endpoint,
			rule.MaxRequests,
			window,
		)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request",
				"endpoint", endpoint,
				"error", err,
			)
			c.Next()
			return
		}

		if !decision.Allowed {
			if entry, auditErr := audit.NewEntry(audit.ActionRateLimited, false); auditErr == nil {
				entry.WithRequest(c.ClientIP(), c.Request.UserAgent()).
					WithMeta("endpoint", endpoint).
					WithMeta("reset_at", decision.ResetAt)
				trail.Record(c.Request.Context(), entry)
			}
			utils.ErrorResponseWithError(c, apperrors.NewRateLimitedError(decision.ResetAt))
			c.Abort()
			return
		}

		c.Next()
	}
}
