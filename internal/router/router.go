package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/emmaus-school/talent-api/internal/config"
	"github.com/emmaus-school/talent-api/internal/handler"
	"github.com/emmaus-school/talent-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AttendanceHandler *handler.AttendanceHandler
	TalentHandler     *handler.TalentHandler
	PurchaseHandler   *handler.PurchaseHandler
	SummaryHandler    *handler.SummaryHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	protected := api.Group("", jwtMiddleware)

	// Ledger operations are teacher/admin actions and get a tighter rate limit.
	mutations := protected.Group("",
		middleware.RequireRole("teacher", "admin"),
		middleware.RateLimit("ledger", 30, time.Minute),
	)
	if deps.AttendanceHandler != nil {
		deps.AttendanceHandler.Register(mutations)
	}
	if deps.TalentHandler != nil {
		deps.TalentHandler.Register(mutations)
	}
	if deps.PurchaseHandler != nil {
		deps.PurchaseHandler.Register(mutations)
	}

	if deps.SummaryHandler != nil {
		deps.SummaryHandler.Register(protected)
	}
}
