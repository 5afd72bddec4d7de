package events

import (
	"time"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAnalysisCompleted EventType = "analysis_completed"
	EventHighRiskDetected  EventType = "high_risk_detected"
	EventTriageApplied     EventType = "triage_applied"
	EventKBGapsDetected    EventType = "kb_gaps_detected"
)

// AllEventTypes lists every event the service emits.
var AllEventTypes = []EventType{
	EventAnalysisCompleted,
	EventHighRiskDetected,
	EventTriageApplied,
	EventKBGapsDetected,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	StaffID *string          `json:"staff_id,omitempty"`
	Role    domain.StaffRole `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AnalysisCompletedPayload payload.
type AnalysisCompletedPayload struct {
	RiskScore      int    `json:"risk_score"`
	RiskLevel      string `json:"risk_level"`
	SuggestedTier  int    `json:"suggested_tier"`
	SimilarCount   int    `json:"similar_count"`
	FromCache      bool   `json:"from_cache"`
	DurationMillis int64  `json:"duration_ms"`
}

// HighRiskDetectedPayload payload.
type HighRiskDetectedPayload struct {
	RiskScore  int      `json:"risk_score"`
	CustomerID string   `json:"customer_id"`
	Signals    []string `json:"signals"`
}

// TriageAppliedPayload payload.
type TriageAppliedPayload struct {
	OldTier     int                   `json:"old_tier"`
	NewTier     int                   `json:"new_tier"`
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
	AddedTags   []string              `json:"added_tags"`
}

// KBGapsDetectedPayload payload.
type KBGapsDetectedPayload struct {
	GapCount       int      `json:"gap_count"`
	Topics         []string `json:"topics"`
	StaleArticles  int      `json:"stale_articles"`
	TicketsScanned int      `json:"tickets_scanned"`
}
