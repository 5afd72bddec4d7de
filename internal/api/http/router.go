package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-labs/support-insights/internal/api/http/handlers"
	"github.com/helpdesk-labs/support-insights/internal/auth"
	"github.com/helpdesk-labs/support-insights/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Insights       *handlers.InsightsHandler
	AuthMiddleware *auth.AuthMiddleware
	// RateLimiter throttles analysis endpoints; nil disables it.
	RateLimiter *RateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Post("/auth/token", cfg.Auth.IssueToken)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())
	leads := auth.RequireStaffRole(domain.StaffRoleTeamLead, domain.StaffRoleAdmin)
	throttled := cfg.RateLimiter.Handle

	tickets := protected.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id/history", cfg.Tickets.History)

	analysis := tickets.Group("/:id/analysis", throttled)
	analysis.Get("/", cfg.Insights.Analysis)
	analysis.Get("/sentiment", cfg.Insights.Sentiment)
	analysis.Get("/triage", cfg.Insights.Triage)
	analysis.Get("/summary", cfg.Insights.Summary)
	analysis.Get("/similar", cfg.Insights.Similar)
	analysis.Get("/replies", cfg.Insights.Replies)
	analysis.Post("/apply-triage", leads, cfg.Insights.ApplyTriage)

	protected.Post("/triage", throttled, cfg.Insights.TriageDraft)
	protected.Get("/kb/gaps", leads, throttled, cfg.Insights.KBGaps)
}
