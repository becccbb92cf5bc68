package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"licentia/internal/application/session/usecases"
	"licentia/internal/shared/constants"
	"licentia/internal/shared/utils"
)

// RotatedTokenHeader carries the replacement token when the session
// identifier rotated during the request. Clients must switch to it; the old
// token stops resolving immediately.
const RotatedTokenHeader = "X-Rotated-Token"

// SessionAuth authenticates admin requests against the session store and
// runs the per-request anomaly and rotation checks.
func SessionAuth(authUC *usecases.AuthenticateSessionUseCase, trustedProxies []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		result, err := authUC.Execute(c.Request.Context(), usecases.AuthenticateSessionCommand{
			Token:     token,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			ViaProxy:  viaTrustedProxy(c, trustedProxies),
		})
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		if result.RotatedToken != "" {
			c.Header(RotatedTokenHeader, result.RotatedToken)
		}

		c.Set(constants.ContextKeyAdminID, result.AdminID)
		c.Set(constants.ContextKeySessionID, result.SessionID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader(constants.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// viaTrustedProxy reports whether the immediate peer is one of the
// configured proxies, in which case client IP changes are expected.
func viaTrustedProxy(c *gin.Context, trustedProxies []string) bool {
	if len(trustedProxies) == 0 {
		return false
	}
	remote := c.RemoteIP()
	for _, p := range trustedProxies {
		if p == remote {
			return true
		}
	}
	return false
}
