package http

import (
	"github.com/gin-gonic/gin"

	"licentia/internal/interfaces/http/middleware"
)

// SetupEngine configures the gin engine with middlewares and all routes.
func (c *Container) SetupEngine() (*gin.Engine, error) {
	if c.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(c.log))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	if len(c.cfg.Server.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(c.cfg.Server.TrustedProxies); err != nil {
			return nil, err
		}
	}

	engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	c.registerRoutes(engine)
	c.engine = engine
	return engine, nil
}

func (c *Container) registerRoutes(engine *gin.Engine) {
	rl := c.cfg.Security.RateLimit

	api := engine.Group("/api/v1")
	{
		licenses := api.Group("/licenses")
		{
			licenses.POST("/validate",
				middleware.RateLimit(c.rateLimiter, "validate", rl.Validation, c.trail, c.log),
				c.licenseHandler.Validate,
			)
			licenses.POST("/activate",
				middleware.RateLimit(c.rateLimiter, "activate", rl.Activation, c.trail, c.log),
				c.licenseHandler.Activate,
			)
			licenses.POST("/deactivate",
				middleware.RateLimit(c.rateLimiter, "deactivate", rl.Activation, c.trail, c.log),
				c.licenseHandler.Deactivate,
			)
		}

		// Session creation sits behind the login rate limit and requires the
		// upstream authenticator's attestation header; everything else under
		// /admin requires a live session.
		api.POST("/admin/sessions",
			middleware.RateLimit(c.rateLimiter, "login", rl.Login, c.trail, c.log),
			c.sessionHandler.Create,
		)

		admin := api.Group("/admin")
		admin.Use(middleware.SessionAuth(c.authenticateSessionUC, c.cfg.Server.TrustedProxies))
		{
			admin.DELETE("/sessions/current", c.sessionHandler.Revoke)
			admin.DELETE("/sessions", c.sessionHandler.RevokeAll)

			admin.POST("/licenses", c.licenseHandler.Issue)
			admin.GET("/licenses/:sid", c.licenseHandler.Get)
			admin.POST("/licenses/:sid/revoke", c.licenseHandler.Revoke)
			admin.PATCH("/licenses/:sid/status", c.licenseHandler.ChangeStatus)

			admin.GET("/lockouts/:subject", c.securityHandler.GetLockout)
			admin.GET("/bans/:subject", c.securityHandler.ListBanHistory)
			admin.POST("/bans/:subject/reset", c.securityHandler.ResetBanCount)
			admin.POST("/bans/:subject/remove", c.securityHandler.RemoveLockout)

			admin.GET("/audit", c.auditHandler.Query)
		}
	}
}
