package middleware

import (
	"github.com/gin-gonic/gin"

	"licentia/internal/shared/constants"
	"licentia/internal/shared/logger"
)

// Logger logs one line per request. Query strings are deliberately left
// out: validation and activation endpoints may carry license keys or
// fingerprints in parameters and those must never reach the log.
func Logger(log logger.Interface) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		args := []any{
			"method", param.Method,
			"path", param.Request.URL.Path,
			"status", param.StatusCode,
			"latency", param.Latency,
			"client_ip", param.ClientIP,
			"user_agent", param.Request.UserAgent(),
		}

		if requestID := param.Request.Header.Get("X-Request-ID"); requestID != "" {
			args = append(args, "request_id", requestID)
		}
		if adminID, exists := param.Keys[constants.ContextKeyAdminID]; exists {
			args = append(args, "admin_id", adminID)
		}
		if param.ErrorMessage != "" {
			args = append(args, "error", param.ErrorMessage)
		}

		switch {
		case param.StatusCode >= 500:
			log.Errorw("request completed", args...)
		case param.StatusCode >= 400:
			log.Warnw("request completed", args...)
		default:
			log.Debugw("request completed", args...)
		}

		return ""
	})
}
