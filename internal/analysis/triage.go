package analysis

import (
	"context"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

const maxSuggestedTags = 4

// Triage recommends tier, priority, tags, category and an assignee for a
// ticket from its subject, first message and the customer's tier.
func (e *Engine) Triage(ctx context.Context, subject, body string, customerTier domain.CustomerTier) TriageResult {
	e.simulateLatency(ctx)

	text := fold(subject + " " + body)

	tier := TierSuggestion{Value: 1, Reason: "Standard process inquiry"}
	if containsAny(text, e.lex.TechnicalKeywords) {
		tier.Value = 2
		tier.Reason = "Technical issue requiring investigation"
	}
	if containsAny(text, e.lex.CriticalKeywords) {
		tier.Value = 3
		tier.Reason = "Critical issue requiring immediate attention"
	}
	if customerTier == domain.CustomerTierEnterprise && tier.Value < 2 {
		tier.Value = 2
		tier.Reason = "Enterprise customer - elevated handling"
	}
	tier.Confidence = inBand(e.rand, 88, 10)

	// Low-urgency language is checked after urgent language and wins when both match.
	priority := PrioritySuggestion{Value: domain.TicketPriorityMedium, Reason: "Standard priority based on content"}
	if containsAny(text, e.lex.UrgentKeywords) {
		priority.Value = domain.TicketPriorityHigh
		priority.Reason = "Urgent language detected"
	}
	if containsAny(text, e.lex.LowUrgency) {
		priority.Value = domain.TicketPriorityLow
		priority.Reason = "Non-urgent inquiry"
	}
	priority.Confidence = inBand(e.rand, 85, 10)

	return TriageResult{
		Tier:              tier,
		Priority:          priority,
		Tags:              e.extractTags(text),
		Category:          e.categorize(text),
		SuggestedAssignee: e.suggestAssignee(tier.Value),
	}
}

func (e *Engine) extractTags(text string) []string {
	tags := []string{}
	for _, rule := range e.lex.Tags {
		if len(tags) == maxSuggestedTags {
			break
		}
		if containsAny(text, rule.Keywords) {
			tags = append(tags, rule.Tag)
		}
	}
	return tags
}

func (e *Engine) categorize(text string) Category {
	for _, rule := range e.lex.Categories {
		if containsAny(text, rule.Keywords) {
			return Category{Name: rule.Name, Icon: rule.Icon}
		}
	}
	return Category{Name: e.lex.DefaultCategory.Name, Icon: e.lex.DefaultCategory.Icon}
}

func (e *Engine) suggestAssignee(tier int) string {
	pool := e.lex.AssigneePools[tier]
	if len(pool) == 0 {
		pool = e.lex.AssigneePools[1]
	}
	if len(pool) == 0 {
		return ""
	}
	return pool[e.rand.Intn(len(pool))]
}

// ApplyTo merges the recommendation into ticket: tier and priority are
// assigned, suggested tags are added to the existing ones. Tags are never removed.
func (r TriageResult) ApplyTo(ticket domain.Ticket) domain.Ticket {
	ticket.Tier = r.Tier.Value
	ticket.Priority = r.Priority.Value

	tags := make([]string, 0, len(ticket.Tags)+len(r.Tags))
	seen := make(map[string]struct{}, cap(tags))
	for _, tag := range append(append([]string{}, ticket.Tags...), r.Tags...) {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	ticket.Tags = tags
	return ticket
}
