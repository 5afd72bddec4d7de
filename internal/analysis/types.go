package analysis

import (
	"time"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

// UrgencyLevel grades how time-sensitive a ticket is.
type UrgencyLevel string

const (
	UrgencyNormal   UrgencyLevel = "normal"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

func (l UrgencyLevel) rank() int {
	switch l {
	case UrgencyMedium:
		return 1
	case UrgencyHigh:
		return 2
	case UrgencyCritical:
		return 3
	default:
		return 0
	}
}

func (l UrgencyLevel) valid() bool {
	switch l {
	case UrgencyNormal, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// SentimentLabel is the coarse polarity of customer text.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNeutral  SentimentLabel = "Neutral"
	SentimentNegative SentimentLabel = "Negative"
)

// Sentiment is the scored polarity of customer text.
type Sentiment struct {
	Score      int            `json:"score"`
	Label      SentimentLabel `json:"label"`
	Indicators []string       `json:"indicators"`
}

// Urgency describes time pressure found in customer text.
type Urgency struct {
	Level    UrgencyLevel `json:"level"`
	Signals  []string     `json:"signals"`
	Deadline *string      `json:"deadline"`
}

// Frustration lists frustration patterns across the customer's messages.
type Frustration struct {
	Detected   bool     `json:"detected"`
	Signals    []string `json:"signals"`
	Escalating bool     `json:"escalating"`
}

// Risk is the composite churn/escalation risk.
type Risk struct {
	Score int    `json:"score"`
	Level string `json:"level"`
	Color string `json:"color"`
}

// Recommendation is an advisory action for the agent.
type Recommendation struct {
	Action      string `json:"action"`
	Description string `json:"description"`
}

// SentimentAnalysis is the Sentiment & Risk Analyzer result.
type SentimentAnalysis struct {
	Sentiment       Sentiment        `json:"sentiment"`
	Urgency         Urgency          `json:"urgency"`
	Frustration     Frustration      `json:"frustration"`
	Risk            Risk             `json:"risk"`
	Recommendations []Recommendation `json:"recommendations"`
}

// TierSuggestion is the recommended support tier.
type TierSuggestion struct {
	Value      int    `json:"value"`
	Reason     string `json:"reason"`
	Confidence int    `json:"confidence"`
}

// PrioritySuggestion is the recommended ticket priority.
type PrioritySuggestion struct {
	Value      domain.TicketPriority `json:"value"`
	Reason     string                `json:"reason"`
	Confidence int                   `json:"confidence"`
}

// Category is the detected ticket category.
type Category struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// TriageResult is the Triage Classifier result.
type TriageResult struct {
	Tier              TierSuggestion     `json:"tier"`
	Priority          PrioritySuggestion `json:"priority"`
	Tags              []string           `json:"tags"`
	Category          Category           `json:"category"`
	SuggestedAssignee string             `json:"suggested_assignee"`
}

// Overview is the header block of a summary.
type Overview struct {
	Customer     string           `json:"customer"`
	Company      string           `json:"company"`
	CustomerTier string           `json:"customer_tier"`
	TicketAge    string           `json:"ticket_age"`
	MessageCount int              `json:"message_count"`
	ChannelsUsed []domain.Channel `json:"channels_used"`
}

// Summary is the Conversation Summarizer result.
type Summary struct {
	Overview      Overview  `json:"overview"`
	Problem       string    `json:"problem"`
	Investigation string    `json:"investigation"`
	CurrentStatus string    `json:"current_status"`
	KeyFindings   []string  `json:"key_findings"`
	NextSteps     []string  `json:"next_steps"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// SimilarTicket is one entry of the Similarity Ranker result.
type SimilarTicket struct {
	ID           string              `json:"id"`
	Subject      string              `json:"subject"`
	Status       domain.TicketStatus `json:"status"`
	Similarity   int                 `json:"similarity"`
	MatchReason  string              `json:"match_reason"`
	Resolution   *string             `json:"resolution"`
	IsHistorical bool                `json:"is_historical"`
}

// ReplyKind identifies the template a reply suggestion was built from.
type ReplyKind string

const (
	ReplyHowTo           ReplyKind = "how-to"
	ReplyTroubleshooting ReplyKind = "troubleshooting"
	ReplyEscalation      ReplyKind = "escalation"
	ReplyClarification   ReplyKind = "clarification"
)

// ScoredArticle is a KB article with its computed relevance to a ticket.
type ScoredArticle struct {
	domain.KBArticle
	CalculatedRelevance int `json:"calculated_relevance"`
}

// ReplySuggestion is a drafted reply the agent can start from.
type ReplySuggestion struct {
	ID          string         `json:"id"`
	Type        ReplyKind      `json:"type"`
	Title       string         `json:"title"`
	Preview     string         `json:"preview"`
	Content     string         `json:"content"`
	KBReference *ScoredArticle `json:"kb_reference,omitempty"`
}

// ReplySuggestions is the Reply Suggestion Generator result.
type ReplySuggestions struct {
	Suggestions []ReplySuggestion `json:"suggestions"`
	RelevantKB  []ScoredArticle   `json:"relevant_kb"`
	Confidence  int               `json:"confidence"`
}

// GapType distinguishes missing KB coverage from stale coverage.
type GapType string

const (
	GapMissing GapType = "missing"
	GapStale   GapType = "stale"
)

// KBGap is a topic with insufficient knowledge-base coverage.
type KBGap struct {
	Topic           string            `json:"topic"`
	Type            GapType           `json:"type"`
	TicketCount     int               `json:"ticket_count"`
	UnresolvedCount int               `json:"unresolved_count"`
	RelatedArticle  *domain.KBArticle `json:"related_article,omitempty"`
	Suggestion      string            `json:"suggestion"`
	Priority        string            `json:"priority"`
}

// SuggestedArticle is a proposed new KB article for a missing topic.
type SuggestedArticle struct {
	SuggestedTitle string   `json:"suggested_title"`
	Topic          string   `json:"topic"`
	BasedOnTickets int      `json:"based_on_tickets"`
	Outline        []string `json:"outline"`
}

// KBGapReport is the KB Gap Detector result.
type KBGapReport struct {
	Gaps              []KBGap            `json:"gaps"`
	SuggestedArticles []SuggestedArticle `json:"suggested_articles"`
	StaleArticles     []domain.KBArticle `json:"stale_articles"`
	AnalysisDate      time.Time          `json:"analysis_date"`
}

// TicketAnalysis bundles the five ticket-level results.
type TicketAnalysis struct {
	TicketID    string            `json:"ticket_id"`
	Sentiment   SentimentAnalysis `json:"sentiment"`
	Triage      TriageResult      `json:"triage"`
	Summary     Summary           `json:"summary"`
	Similar     []SimilarTicket   `json:"similar"`
	Replies     ReplySuggestions  `json:"replies"`
	GeneratedAt time.Time         `json:"generated_at"`
}
