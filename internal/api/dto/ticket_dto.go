package dto

import (
	"time"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

// TicketSummary response.
type TicketSummary struct {
	ID             string                `json:"id"`
	CustomerID     string                `json:"customer_id"`
	Subject        string                `json:"subject"`
	Preview        string                `json:"preview"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	Tier           int                   `json:"tier"`
	Channel        domain.Channel        `json:"channel"`
	Tags           []string              `json:"tags"`
	LinkedIssueKey *string               `json:"linked_issue_key,omitempty"`
	Assignee       string                `json:"assignee,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// TicketHistoryResponse is one audit trail entry.
type TicketHistoryResponse struct {
	ID          string                  `json:"id"`
	ChangeType  domain.TicketChangeType `json:"change_type"`
	ChangedByID *string                 `json:"changed_by_id,omitempty"`
	OldValue    map[string]any          `json:"old_value"`
	NewValue    map[string]any          `json:"new_value"`
	CreatedAt   time.Time               `json:"created_at"`
}

// PageMeta describes pagination of a list response.
type PageMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Count    int `json:"count"`
}

// NewTicketSummary maps a ticket to its response shape.
func NewTicketSummary(t domain.Ticket) TicketSummary {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketSummary{
		ID:             t.ID,
		CustomerID:     t.CustomerID,
		Subject:        t.Subject,
		Preview:        t.Preview,
		Status:         t.Status,
		Priority:       t.Priority,
		Tier:           t.Tier,
		Channel:        t.Channel,
		Tags:           tags,
		LinkedIssueKey: t.LinkedIssueKey,
		Assignee:       t.Assignee,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
