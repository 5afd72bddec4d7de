package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

func TestSummarize(t *testing.T) {
	e := newTestEngine(t)
	ticket := domain.Ticket{
		ID: "TKT-4521", Tier: 2, Priority: domain.TicketPriorityHigh,
		CreatedAt: fixedNow.Add(-72 * time.Hour),
	}
	customer := &domain.Customer{Name: "Sarah Chen", Company: "TechCorp", Tier: domain.CustomerTierEnterprise}
	timeline := []domain.TimelineEntry{
		systemEvent("Ticket created"),
		customerMsg("IVR tests fail after migration.\nAudio prompts are silent.\nWe go live Friday.\nSignature line"),
		agentMsg("We found the RTP ports differ between environments."),
		{Type: domain.EntryTypeMessage, Channel: domain.ChannelSlack, Sender: domain.SenderCustomer, Content: "Any news?"},
	}

	got := e.Summarize(context.Background(), ticket, timeline, customer, nil)

	assert.Equal(t, Overview{
		Customer:     "Sarah Chen",
		Company:      "TechCorp",
		CustomerTier: "enterprise",
		TicketAge:    "3 days",
		MessageCount: 3,
		ChannelsUsed: []domain.Channel{domain.ChannelSystem, domain.ChannelEmail, domain.ChannelSlack},
	}, got.Overview)
	assert.Equal(t, "IVR tests fail after migration. Audio prompts are silent. We go live Friday.", got.Problem)
	assert.Equal(t, "Agent has responded and is investigating", got.Investigation)
	assert.Equal(t, "Awaiting agent response", got.CurrentStatus)
	assert.Equal(t, []string{"We found the RTP ports differ between environments."}, got.KeyFindings)
	assert.Equal(t, []string{
		"Consider creating engineering ticket",
		"Respond to customer's latest message",
		"Schedule follow-up call with customer",
	}, got.NextSteps)
	assert.Equal(t, fixedNow, got.GeneratedAt)
}

func TestSummarize_EmptyInput(t *testing.T) {
	e := newTestEngine(t)

	got := e.Summarize(context.Background(), domain.Ticket{Tier: 1}, nil, nil, nil)

	assert.Equal(t, "Issue details pending", got.Problem)
	assert.Equal(t, "Awaiting initial response", got.Investigation)
	assert.Equal(t, "Awaiting customer response", got.CurrentStatus)
	assert.Equal(t, "Less than 1 hour", got.Overview.TicketAge)
	assert.Empty(t, got.Overview.Customer)
	assert.Empty(t, got.KeyFindings)
	assert.Equal(t, []string{"Update customer on investigation progress"}, got.NextSteps)
}

func TestCurrentStatus_LinkedIssue(t *testing.T) {
	ticket := domain.Ticket{LinkedIssueKey: strPtr("ENG-1234")}

	assert.Equal(t, "Escalated to Engineering (In Review)",
		currentStatus(ticket, nil, &domain.EngineeringIssue{Key: "ENG-1234", Status: "In Review"}))
	assert.Equal(t, "Escalated to Engineering (In Progress)", currentStatus(ticket, nil, nil))

	steps := nextSteps(domain.Ticket{LinkedIssueKey: strPtr("ENG-1234"), Tier: 3}, []domain.TimelineEntry{agentMsg("Update sent")})
	assert.Equal(t, []string{"Update customer on investigation progress"}, steps)
}

func TestKeyFindings_CapsAtThree(t *testing.T) {
	e := newTestEngine(t)
	long := "Root cause confirmed: the carrier trunk rejects re-INVITE messages when codec negotiation falls back to G.711 during peak evening hours on the east coast"
	timeline := []domain.TimelineEntry{
		agentMsg("We found a config drift"),
		internalNote("Confirmed on staging"),
		agentMsg(long),
		customerMsg("Found another failing number"),
	}

	got := e.keyFindings(timeline)

	assert.Len(t, got, 3)
	assert.Equal(t, truncate(long, 100), got[2])
	assert.Len(t, []rune(got[2]), 100)
}

func TestFormatTicketAge(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Minute, "Less than 1 hour"},
		{time.Hour, "1 hours"},
		{23 * time.Hour, "23 hours"},
		{25 * time.Hour, "1 day"},
		{49 * time.Hour, "2 days"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatTicketAge(fixedNow.Add(-tt.age), fixedNow), tt.age.String())
	}
}
