package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusWaiting  TicketStatus = "waiting"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

// IsSettled reports whether the ticket no longer needs work.
func (s TicketStatus) IsSettled() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// Channel identifies where a conversation or entry happened.
type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelChat   Channel = "chat"
	ChannelPhone  Channel = "phone"
	ChannelSlack  Channel = "slack"
	ChannelJira   Channel = "jira"
	ChannelSystem Channel = "system"
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID             string         `json:"id" yaml:"id"`
	CustomerID     string         `json:"customer_id" yaml:"customer_id"`
	Subject        string         `json:"subject" yaml:"subject"`
	Preview        string         `json:"preview" yaml:"preview"`
	Status         TicketStatus   `json:"status" yaml:"status"`
	Priority       TicketPriority `json:"priority" yaml:"priority"`
	Tier           int            `json:"tier" yaml:"tier"`
	Channel        Channel        `json:"channel" yaml:"channel"`
	Channels       []Channel      `json:"channels" yaml:"channels"`
	Tags           []string       `json:"tags" yaml:"tags"`
	LinkedIssueKey *string        `json:"linked_issue_key,omitempty" yaml:"linked_issue_key"`
	LinkedThread   bool           `json:"linked_thread" yaml:"linked_thread"`
	Assignee       string         `json:"assignee,omitempty" yaml:"assignee"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" yaml:"updated_at"`
}

// HasTag reports whether the ticket already carries tag.
func (t Ticket) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}
