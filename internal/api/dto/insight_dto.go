package dto

import (
	"time"

	"github.com/helpdesk-labs/support-insights/internal/analysis"
	"github.com/helpdesk-labs/support-insights/internal/domain"
)

// TokenRequest exchanges the staff API key for a bearer token.
type TokenRequest struct {
	AgentID string           `json:"agent_id"`
	Role    domain.StaffRole `json:"role"`
	APIKey  string           `json:"api_key"`
}

// TokenResponse payload.
type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   time.Time        `json:"expires_at"`
	StaffID     string           `json:"staff_id"`
	Role        domain.StaffRole `json:"role"`
}

// TriageRequest classifies a ticket that has not been filed yet.
type TriageRequest struct {
	Subject      string              `json:"subject"`
	Body         string              `json:"body"`
	CustomerTier domain.CustomerTier `json:"customer_tier"`
}

// AnalysisResponse wraps a full analysis.
type AnalysisResponse struct {
	analysis.TicketAnalysis
	Cached bool `json:"cached"`
}

// TriageSnapshot is the triaged fields of a ticket at one point in time.
type TriageSnapshot struct {
	Tier     int                   `json:"tier"`
	Priority domain.TicketPriority `json:"priority"`
	Tags     []string              `json:"tags"`
}

// ApplyTriageResponse reports the merged ticket.
type ApplyTriageResponse struct {
	Ticket   TicketSummary         `json:"ticket"`
	Previous TriageSnapshot        `json:"previous"`
	Applied  analysis.TriageResult `json:"applied"`
}
