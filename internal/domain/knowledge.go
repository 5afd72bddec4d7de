package domain

import "time"

// KBArticle is a knowledge-base entry.
type KBArticle struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Category    string    `json:"category" yaml:"category"`
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
	Relevance   int       `json:"relevance" yaml:"relevance"`
	Views       int       `json:"views" yaml:"views"`
	Stale       bool      `json:"stale" yaml:"stale"`
}

// EngineeringIssue is a linked record in the external engineering tracker.
type EngineeringIssue struct {
	Key            string    `json:"key" yaml:"key"`
	Summary        string    `json:"summary" yaml:"summary"`
	Status         string    `json:"status" yaml:"status"`
	Priority       string    `json:"priority" yaml:"priority"`
	LinkedTicketID string    `json:"linked_ticket_id" yaml:"linked_ticket_id"`
	Labels         []string  `json:"labels" yaml:"labels"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
}

// HistoricalMatch is a curated, resolved ticket used as long-term memory by the similarity ranker.
type HistoricalMatch struct {
	ID          string       `json:"id" yaml:"id"`
	Subject     string       `json:"subject" yaml:"subject"`
	Status      TicketStatus `json:"status" yaml:"status"`
	Similarity  int          `json:"similarity" yaml:"similarity"`
	MatchReason string       `json:"match_reason" yaml:"match_reason"`
	Resolution  string       `json:"resolution" yaml:"resolution"`
}
