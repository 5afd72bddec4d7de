package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

func TestTriage_ProductionDownEnterprise(t *testing.T) {
	e := newTestEngine(t)

	got := e.Triage(context.Background(), "production down, blocking release", "", domain.CustomerTierEnterprise)

	assert.Equal(t, TierSuggestion{Value: 3, Reason: "Critical issue requiring immediate attention", Confidence: 88}, got.Tier)
	assert.Equal(t, PrioritySuggestion{Value: domain.TicketPriorityHigh, Reason: "Urgent language detected", Confidence: 85}, got.Priority)
	assert.Equal(t, "Engineering Manager", got.SuggestedAssignee)
}

func TestTriage_TierNeverDropsAsSeverityGrows(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	routine := e.Triage(ctx, "Where do I change my avatar", "", domain.CustomerTierPro)
	technical := e.Triage(ctx, "Where do I change my avatar", "the page shows an error", domain.CustomerTierPro)
	critical := e.Triage(ctx, "Where do I change my avatar", "the page shows an error and it is blocking us", domain.CustomerTierPro)

	assert.Equal(t, 1, routine.Tier.Value)
	assert.Equal(t, 2, technical.Tier.Value)
	assert.Equal(t, 3, critical.Tier.Value)
}

func TestTriage_EnterpriseFloor(t *testing.T) {
	e := newTestEngine(t)

	got := e.Triage(context.Background(), "Where do I change my avatar", "", domain.CustomerTierEnterprise)

	assert.Equal(t, 2, got.Tier.Value)
	assert.Equal(t, "Enterprise customer - elevated handling", got.Tier.Reason)
	assert.Equal(t, "Senior Engineer Tom", got.SuggestedAssignee)
}

// Low-urgency phrasing is evaluated last, so it overrides urgent phrasing.
// This ordering is kept for compatibility with existing triage results.
func TestTriage_LowUrgencyOverridesUrgentQuirk(t *testing.T) {
	e := newTestEngine(t)

	got := e.Triage(context.Background(), "Urgent question about invoices", "", domain.CustomerTierPro)

	assert.Equal(t, domain.TicketPriorityLow, got.Priority.Value)
	assert.Equal(t, "Non-urgent inquiry", got.Priority.Reason)
}

func TestTriage_TagsAndCategory(t *testing.T) {
	e := newTestEngine(t)

	got := e.Triage(context.Background(),
		"IVR and chatbot broken after Genesys migration",
		"MOS dropped during the cruncher load test, velocity alerts fire and the API webhook times out",
		domain.CustomerTierPro)

	assert.Equal(t, []string{"ivr", "chatbot", "voice-quality", "load-testing"}, got.Tags)
	assert.Equal(t, Category{Name: "Bug Report", Icon: "🐛"}, got.Category)

	general := e.Triage(context.Background(), "Invoice copy", "", domain.CustomerTierTrial)
	assert.Empty(t, general.Tags)
	assert.Equal(t, Category{Name: "General Inquiry", Icon: "💬"}, general.Category)
	assert.Equal(t, domain.TicketPriorityMedium, general.Priority.Value)
}

func TestTriageResult_ApplyTo(t *testing.T) {
	ticket := domain.Ticket{ID: "TKT-9", Tier: 1, Priority: domain.TicketPriorityLow, Tags: []string{"ivr", "billing"}}
	result := TriageResult{
		Tier:     TierSuggestion{Value: 2},
		Priority: PrioritySuggestion{Value: domain.TicketPriorityHigh},
		Tags:     []string{"migration", "ivr"},
	}

	got := result.ApplyTo(ticket)

	assert.Equal(t, 2, got.Tier)
	assert.Equal(t, domain.TicketPriorityHigh, got.Priority)
	assert.Equal(t, []string{"ivr", "billing", "migration"}, got.Tags)
	assert.Equal(t, []string{"ivr", "billing"}, ticket.Tags)
}
