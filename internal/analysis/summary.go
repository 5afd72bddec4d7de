package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

const (
	problemLines      = 3
	problemMaxRunes   = 200
	findingMaxRunes   = 100
	maxKeyFindings    = 3
	maxNextSteps      = 3
	problemPending    = "Issue details pending"
	defaultIssueState = "In Progress"
)

// Summarize condenses a ticket's conversation for hand-off and escalation.
func (e *Engine) Summarize(ctx context.Context, ticket domain.Ticket, timeline []domain.TimelineEntry, customer *domain.Customer, issue *domain.EngineeringIssue) Summary {
	e.simulateLatency(ctx)

	now := e.now()
	overview := Overview{
		TicketAge:    formatTicketAge(ticket.CreatedAt, now),
		ChannelsUsed: channelsUsed(timeline),
	}
	if customer != nil {
		overview.Customer = customer.Name
		overview.Company = customer.Company
		overview.CustomerTier = string(customer.Tier)
	}

	agentReplied := false
	for _, entry := range timeline {
		if !entry.IsMessage() {
			continue
		}
		overview.MessageCount++
		if entry.Sender == domain.SenderAgent {
			agentReplied = true
		}
	}

	investigation := "Awaiting initial response"
	if agentReplied {
		investigation = "Agent has responded and is investigating"
	}

	return Summary{
		Overview:      overview,
		Problem:       problemStatement(timeline),
		Investigation: investigation,
		CurrentStatus: currentStatus(ticket, timeline, issue),
		KeyFindings:   e.keyFindings(timeline),
		NextSteps:     nextSteps(ticket, timeline),
		GeneratedAt:   now.UTC(),
	}
}

func problemStatement(timeline []domain.TimelineEntry) string {
	for _, entry := range timeline {
		if !entry.IsCustomerMessage() {
			continue
		}
		lines := strings.Split(entry.Content, "\n")
		if len(lines) > problemLines {
			lines = lines[:problemLines]
		}
		problem := truncate(strings.Join(lines, " "), problemMaxRunes)
		if problem == "" {
			return problemPending
		}
		return problem
	}
	return problemPending
}

func (e *Engine) keyFindings(timeline []domain.TimelineEntry) []string {
	findings := []string{}
	for _, entry := range timeline {
		if len(findings) == maxKeyFindings {
			break
		}
		if !entry.IsMessage() {
			continue
		}
		if containsAny(fold(entry.Content), e.lex.FindingMarkers) {
			findings = append(findings, truncate(entry.Content, findingMaxRunes))
		}
	}
	return findings
}

func currentStatus(ticket domain.Ticket, timeline []domain.TimelineEntry, issue *domain.EngineeringIssue) string {
	if ticket.LinkedIssueKey != nil && *ticket.LinkedIssueKey != "" {
		status := defaultIssueState
		if issue != nil && issue.Status != "" {
			status = issue.Status
		}
		return fmt.Sprintf("Escalated to Engineering (%s)", status)
	}
	if n := len(timeline); n > 0 && timeline[n-1].Sender == domain.SenderCustomer {
		return "Awaiting agent response"
	}
	return "Awaiting customer response"
}

func nextSteps(ticket domain.Ticket, timeline []domain.TimelineEntry) []string {
	steps := []string{}
	if (ticket.LinkedIssueKey == nil || *ticket.LinkedIssueKey == "") && ticket.Tier >= 2 {
		steps = append(steps, "Consider creating engineering ticket")
	}
	for i := len(timeline) - 1; i >= 0; i-- {
		if !timeline[i].IsMessage() {
			continue
		}
		if timeline[i].Sender == domain.SenderCustomer {
			steps = append(steps, "Respond to customer's latest message")
		}
		break
	}
	if ticket.Priority == domain.TicketPriorityHigh {
		steps = append(steps, "Schedule follow-up call with customer")
	}
	steps = append(steps, "Update customer on investigation progress")

	if len(steps) > maxNextSteps {
		steps = steps[:maxNextSteps]
	}
	return steps
}

func channelsUsed(timeline []domain.TimelineEntry) []domain.Channel {
	channels := []domain.Channel{}
	seen := map[domain.Channel]struct{}{}
	for _, entry := range timeline {
		if _, ok := seen[entry.Channel]; ok {
			continue
		}
		seen[entry.Channel] = struct{}{}
		channels = append(channels, entry.Channel)
	}
	return channels
}

func formatTicketAge(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return "Less than 1 hour"
	}
	hours := int(now.Sub(createdAt).Hours())
	switch {
	case hours < 1:
		return "Less than 1 hour"
	case hours < 24:
		return fmt.Sprintf("%d hours", hours)
	}
	days := hours / 24
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
