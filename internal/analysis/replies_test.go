package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

func suggestionIDs(s []ReplySuggestion) []string {
	ids := make([]string, 0, len(s))
	for _, sug := range s {
		ids = append(ids, sug.ID)
	}
	return ids
}

func TestSuggestReplies_AllFlagsDropClarification(t *testing.T) {
	e := newTestEngine(t)
	ticket := domain.Ticket{ID: "T1", Subject: "How to configure IVR failover", Tier: 3}
	timeline := []domain.TimelineEntry{customerMsg("The IVR test is failing, this is urgent")}

	got := e.SuggestReplies(context.Background(), ticket, timeline, nil)

	require.Len(t, got.Suggestions, 3)
	assert.Equal(t, []string{"sug-1", "sug-2", "sug-3"}, suggestionIDs(got.Suggestions))
	assert.Equal(t, ReplyHowTo, got.Suggestions[0].Type)
	assert.Equal(t, "Here's how to ivr...", got.Suggestions[0].Preview)
	assert.Contains(t, got.Suggestions[0].Content, `outlined in "our documentation"`)
	assert.Contains(t, got.Suggestions[1].Content, "impacting your ivr")
	assert.Contains(t, got.Suggestions[2].Content, "Tier 3 team who specialize in ivr")
	assert.Nil(t, got.Suggestions[2].KBReference)
	assert.Empty(t, got.RelevantKB)
	assert.Equal(t, 85, got.Confidence)
}

func TestSuggestReplies_ClarificationOnly(t *testing.T) {
	e := newTestEngine(t)

	got := e.SuggestReplies(context.Background(), domain.Ticket{Subject: "Invoice copy"}, nil, nil)

	require.Len(t, got.Suggestions, 1)
	assert.Equal(t, "sug-4", got.Suggestions[0].ID)
	assert.Equal(t, ReplyClarification, got.Suggestions[0].Type)
	assert.Contains(t, got.Suggestions[0].Content, "Your platform version")
}

func TestSuggestReplies_EscalationDefaultsToTierTwo(t *testing.T) {
	e := newTestEngine(t)

	got := e.SuggestReplies(context.Background(), domain.Ticket{Subject: "Please escalate"}, nil, nil)

	require.Len(t, got.Suggestions, 2)
	assert.Equal(t, []string{"sug-3", "sug-4"}, suggestionIDs(got.Suggestions))
	assert.Contains(t, got.Suggestions[0].Content, "Tier 2 team who specialize in these types of issues")
}

func TestSuggestReplies_RelevantArticles(t *testing.T) {
	e := newTestEngine(t)
	ticket := domain.Ticket{ID: "T1", Subject: "IVR tests failing", Tags: []string{"ivr"}}
	timeline := []domain.TimelineEntry{
		customerMsg("First message"),
		agentMsg("Can you share logs?"),
		customerMsg("Since the migration the IVR test suite keeps failing"),
	}
	articles := []domain.KBArticle{
		{ID: "KB-1", Title: "Troubleshooting IVR Test Failures", Category: "IVR"},
		{ID: "KB-2", Title: "Chatbot Testing Best Practices", Category: "Chatbot"},
		{ID: "KB-3", Title: "IVR Migration Checklist", Category: "Migration"},
		{ID: "KB-4", Title: "Migration FAQ", Category: "General"},
	}

	got := e.SuggestReplies(context.Background(), ticket, timeline, articles)

	require.Len(t, got.RelevantKB, 2)
	assert.Equal(t, "KB-1", got.RelevantKB[0].ID)
	assert.Equal(t, 50, got.RelevantKB[0].CalculatedRelevance)
	assert.Equal(t, "KB-3", got.RelevantKB[1].ID)
	assert.Equal(t, 50, got.RelevantKB[1].CalculatedRelevance)

	assert.Equal(t, []string{"sug-2", "sug-4"}, suggestionIDs(got.Suggestions))
	require.NotNil(t, got.Suggestions[0].KBReference)
	assert.Equal(t, "KB-1", got.Suggestions[0].KBReference.ID)
}

func TestRelevantArticles_EachTagCounts(t *testing.T) {
	ticket := domain.Ticket{Subject: "Audio drops", Tags: []string{"voice", "quality"}}
	articles := []domain.KBArticle{{ID: "KB-1", Title: "Voice Quality Optimization Guide", Category: "Voice"}}

	got := relevantArticles(ticket, "", articles)

	require.Len(t, got, 1)
	// "voice" and "quality" each score as title words and as tags.
	assert.Equal(t, 100, got[0].CalculatedRelevance)
}
