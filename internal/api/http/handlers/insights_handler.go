package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-labs/support-insights/internal/api/dto"
	"github.com/helpdesk-labs/support-insights/internal/auth"
	"github.com/helpdesk-labs/support-insights/internal/service"
	apperrors "github.com/helpdesk-labs/support-insights/pkg/util/errorutil"
)

// InsightsHandler exposes the ticket analyses.
type InsightsHandler struct {
	service *service.InsightService
}

// NewInsightsHandler constructs handler.
func NewInsightsHandler(insightService *service.InsightService) *InsightsHandler {
	return &InsightsHandler{service: insightService}
}

// Analysis GET /tickets/:id/analysis.
func (h *InsightsHandler) Analysis(c *fiber.Ctx) error {
	out, err := h.service.AnalyzeTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AnalysisResponse{TicketAnalysis: out.Analysis, Cached: out.FromCache}})
}

// Sentiment GET /tickets/:id/analysis/sentiment.
func (h *InsightsHandler) Sentiment(c *fiber.Ctx) error {
	result, err := h.service.Sentiment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Triage GET /tickets/:id/analysis/triage.
func (h *InsightsHandler) Triage(c *fiber.Ctx) error {
	result, err := h.service.Triage(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Summary GET /tickets/:id/analysis/summary.
func (h *InsightsHandler) Summary(c *fiber.Ctx) error {
	result, err := h.service.Summary(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Similar GET /tickets/:id/analysis/similar.
func (h *InsightsHandler) Similar(c *fiber.Ctx) error {
	result, err := h.service.Similar(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Replies GET /tickets/:id/analysis/replies.
func (h *InsightsHandler) Replies(c *fiber.Ctx) error {
	result, err := h.service.Replies(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// ApplyTriage POST /tickets/:id/analysis/apply-triage.
func (h *InsightsHandler) ApplyTriage(c *fiber.Ctx) error {
	out, err := h.service.ApplyTriage(c.UserContext(), c.Params("id"), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ApplyTriageResponse{
		Ticket: dto.NewTicketSummary(out.After),
		Previous: dto.TriageSnapshot{
			Tier:     out.Before.Tier,
			Priority: out.Before.Priority,
			Tags:     out.Before.Tags,
		},
		Applied: out.Applied,
	}})
}

// TriageDraft POST /triage.
func (h *InsightsHandler) TriageDraft(c *fiber.Ctx) error {
	var req dto.TriageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.TriageText(c.UserContext(), req.Subject, req.Body, req.CustomerTier)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// KBGaps GET /kb/gaps.
func (h *InsightsHandler) KBGaps(c *fiber.Ctx) error {
	report, err := h.service.DetectKBGaps(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

func actorFrom(c *fiber.Ctx) service.Actor {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}
	}
	return service.Actor{StaffID: principal.Staff.ID, Role: principal.Staff.Role}
}
