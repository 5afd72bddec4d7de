package domain

import "time"

// EntryType differentiates between messages and system events.
type EntryType string

const (
	EntryTypeMessage EntryType = "message"
	EntryTypeSystem  EntryType = "system"
)

// SenderType indicates who authored a message.
type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderAgent    SenderType = "agent"
	SenderInternal SenderType = "internal"
)

// TimelineEntry is one append-only item in a ticket's conversation log.
// Slice order is chronological order.
type TimelineEntry struct {
	ID             string     `json:"id" yaml:"id"`
	TicketID       string     `json:"ticket_id" yaml:"ticket_id"`
	Type           EntryType  `json:"type" yaml:"type"`
	Channel        Channel    `json:"channel" yaml:"channel"`
	Sender         SenderType `json:"sender,omitempty" yaml:"sender"`
	SenderName     string     `json:"sender_name,omitempty" yaml:"sender_name"`
	Content        string     `json:"content" yaml:"content"`
	Internal       bool       `json:"internal" yaml:"internal"`
	ExternalThread bool       `json:"external_thread" yaml:"external_thread"`
	IssueStatus    *string    `json:"issue_status,omitempty" yaml:"issue_status"`
	OccurredAt     time.Time  `json:"occurred_at" yaml:"occurred_at"`
}

// IsMessage reports whether the entry is a message rather than a system event.
func (e TimelineEntry) IsMessage() bool {
	return e.Type == EntryTypeMessage
}

// IsCustomerMessage reports whether the entry is a message written by the customer.
func (e TimelineEntry) IsCustomerMessage() bool {
	return e.Type == EntryTypeMessage && e.Sender == SenderCustomer
}
