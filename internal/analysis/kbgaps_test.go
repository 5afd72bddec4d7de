package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

func gapFixture() ([]domain.Ticket, []domain.KBArticle) {
	tickets := []domain.Ticket{
		{ID: "T1", Status: domain.TicketStatusOpen, Tags: []string{"migration", "chatbot"}},
		{ID: "T2", Status: domain.TicketStatusWaiting, Tags: []string{"migration", "chatbot", "sso"}},
		{ID: "T3", Status: domain.TicketStatusResolved, Tags: []string{"migration", "ivr"}},
		{ID: "T4", Status: domain.TicketStatusClosed, Tags: []string{"ivr", "reporting"}},
		{ID: "T5", Status: domain.TicketStatusOpen, Tags: []string{"reporting"}},
	}
	articles := []domain.KBArticle{
		{ID: "KB-1", Title: "Troubleshooting IVR Test Failures", Category: "IVR"},
		{ID: "KB-2", Title: "Chatbot Testing Best Practices", Category: "Chatbot", Stale: true},
		{ID: "KB-3", Title: "Legacy Dashboards", Category: "Reporting", Stale: true},
	}
	return tickets, articles
}

func TestDetectKBGaps(t *testing.T) {
	e := newTestEngine(t)
	tickets, articles := gapFixture()

	got := e.DetectKBGaps(context.Background(), tickets, articles)

	require.Len(t, got.Gaps, 3)

	migration := got.Gaps[0]
	assert.Equal(t, "migration", migration.Topic)
	assert.Equal(t, GapMissing, migration.Type)
	assert.Equal(t, 3, migration.TicketCount)
	assert.Equal(t, 2, migration.UnresolvedCount)
	assert.Equal(t, "high", migration.Priority)
	assert.Equal(t, `Create KB article for "migration" - 3 tickets reference this topic`, migration.Suggestion)
	assert.Nil(t, migration.RelatedArticle)

	chatbot := got.Gaps[1]
	assert.Equal(t, "chatbot", chatbot.Topic)
	assert.Equal(t, GapStale, chatbot.Type)
	assert.Equal(t, 2, chatbot.TicketCount)
	assert.Equal(t, "medium", chatbot.Priority)
	require.NotNil(t, chatbot.RelatedArticle)
	assert.Equal(t, "KB-2", chatbot.RelatedArticle.ID)
	assert.Equal(t, `Update "Chatbot Testing Best Practices" - marked as stale but still referenced`, chatbot.Suggestion)

	// No title mentions "reporting", so the stale category match does not apply.
	reporting := got.Gaps[2]
	assert.Equal(t, "reporting", reporting.Topic)
	assert.Equal(t, GapMissing, reporting.Type)
	assert.Equal(t, "medium", reporting.Priority)
	assert.Equal(t, 1, reporting.UnresolvedCount)

	require.Len(t, got.SuggestedArticles, 2)
	assert.Equal(t, SuggestedArticle{
		SuggestedTitle: "CCaaS Migration Checklist",
		Topic:          "migration",
		BasedOnTickets: 3,
		Outline:        DefaultLexicon().ArticleOutline,
	}, got.SuggestedArticles[0])
	assert.Equal(t, "Guide: Working with reporting", got.SuggestedArticles[1].SuggestedTitle)

	assert.Equal(t, []string{"KB-2", "KB-3"}, []string{got.StaleArticles[0].ID, got.StaleArticles[1].ID})
	assert.Equal(t, fixedNow, got.AnalysisDate)
}

func TestDetectKBGaps_IgnoresRareTagsAndIsRepeatable(t *testing.T) {
	e := newTestEngine(t)
	tickets, articles := gapFixture()

	first := e.DetectKBGaps(context.Background(), tickets, articles)
	second := e.DetectKBGaps(context.Background(), tickets, articles)

	assert.Equal(t, first, second)
	for _, gap := range first.Gaps {
		assert.NotEqual(t, "sso", gap.Topic)
		assert.GreaterOrEqual(t, gap.TicketCount, 2)
	}
}

func TestDetectKBGaps_Empty(t *testing.T) {
	e := newTestEngine(t)

	got := e.DetectKBGaps(context.Background(), nil, nil)

	assert.Empty(t, got.Gaps)
	assert.Empty(t, got.SuggestedArticles)
	assert.Empty(t, got.StaleArticles)
	assert.NotNil(t, got.Gaps)
}
