package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

func TestAnalyzeSentiment_NoCustomerMessages(t *testing.T) {
	e := newTestEngine(t)
	timeline := []domain.TimelineEntry{agentMsg("Hi, how can we help?"), systemEvent("Ticket created")}

	got := e.AnalyzeSentiment(context.Background(), domain.Ticket{}, timeline, nil)

	assert.Equal(t, SentimentNeutral, got.Sentiment.Label)
	assert.Equal(t, 50, got.Sentiment.Score)
	assert.Equal(t, UrgencyNormal, got.Urgency.Level)
	assert.Nil(t, got.Urgency.Deadline)
	assert.False(t, got.Frustration.Detected)
	assert.Equal(t, Risk{Score: 50, Level: "Medium", Color: "yellow"}, got.Risk)
	assert.Empty(t, got.Recommendations)
}

func TestAnalyzeSentiment_EnterpriseNeverNormal(t *testing.T) {
	e := newTestEngine(t)
	customer := &domain.Customer{Tier: domain.CustomerTierEnterprise}

	for _, timeline := range [][]domain.TimelineEntry{
		nil,
		{customerMsg("Thanks, that works great")},
		{customerMsg("Quick question about reports")},
	} {
		got := e.AnalyzeSentiment(context.Background(), domain.Ticket{}, timeline, customer)
		assert.NotEqual(t, UrgencyNormal, got.Urgency.Level)
	}

	got := e.AnalyzeSentiment(context.Background(), domain.Ticket{}, nil, customer)
	assert.Equal(t, UrgencyMedium, got.Urgency.Level)
	assert.Equal(t, []string{signalEnterprise}, got.Urgency.Signals)
	assert.Equal(t, 65, got.Risk.Score)
}

func TestAnalyzeSentiment_UrgentIVRMessage(t *testing.T) {
	e := newTestEngine(t)
	timeline := []domain.TimelineEntry{customerMsg("This is URGENT, my IVR tests keep failing!!! Please help ASAP.")}

	got := e.AnalyzeSentiment(context.Background(), domain.Ticket{}, timeline, nil)

	// "failing" is not in the negative lexicon, only "failed" is.
	assert.Equal(t, SentimentNeutral, got.Sentiment.Label)
	assert.Equal(t, 50, got.Sentiment.Score)
	assert.Contains(t, got.Sentiment.Indicators, "Emphatic punctuation")
	assert.NotContains(t, got.Sentiment.Indicators, "ALL CAPS usage")
	assert.Equal(t, UrgencyHigh, got.Urgency.Level)
	assert.ElementsMatch(t, []string{"asap", "urgent"}, got.Urgency.Signals)
	assert.Equal(t, Risk{Score: 65, Level: "High", Color: "orange"}, got.Risk)
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "Prioritize response", got.Recommendations[0].Action)
}

func TestScoreSentiment(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name       string
		text       string
		label      SentimentLabel
		score      int
		indicators []string
	}{
		{"positive", "Thank you, the fix works and it is perfect", SentimentPositive, 85, []string{}},
		{"one negative stays neutral", "The import failed", SentimentNeutral, 40, []string{}},
		{"negative", "Frustrated and disappointed, the sync failed again", SentimentNegative, 20, []string{"Multiple negative terms"}},
		{"floor at twenty", "terrible worst useless waste broken", SentimentNegative, 20, []string{"Multiple negative terms"}},
		{"shouting", "THE DASHBOARD IS EMPTY AGAIN", SentimentNeutral, 50, []string{"ALL CAPS usage"}},
		{"question marks", "Why is this happening???", SentimentNeutral, 50, []string{"Emphatic punctuation"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.scoreSentiment(tt.text)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.indicators, got.Indicators)
		})
	}
}

func TestDetectUrgency_Deadline(t *testing.T) {
	e := newTestEngine(t)

	got := e.AnalyzeSentiment(context.Background(), domain.Ticket{}, []domain.TimelineEntry{customerMsg("We need this fixed by Friday please")}, nil)

	require.NotNil(t, got.Urgency.Deadline)
	assert.Equal(t, "by friday", *got.Urgency.Deadline)
	assert.Equal(t, UrgencyMedium, got.Urgency.Level)
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "Note deadline: by friday", got.Recommendations[0].Action)
}

func TestDetectUrgency_CriticalBeatsHigh(t *testing.T) {
	e := newTestEngine(t)

	got := e.detectUrgency("urgent: production down for all agents", nil)

	assert.Equal(t, UrgencyCritical, got.Level)
	assert.Equal(t, []string{"urgent", "production down"}, got.Signals)
}

func TestDetectFrustration(t *testing.T) {
	e := newTestEngine(t)

	t.Run("consecutive run ignores internal notes and system events", func(t *testing.T) {
		timeline := []domain.TimelineEntry{
			customerMsg("The recording is still not working"),
			internalNote("Looking into the storage bucket"),
			systemEvent("Priority changed"),
			customerMsg("I waited all day and it broke again"),
		}
		got := e.AnalyzeSentiment(context.Background(), domain.Ticket{}, timeline, nil)

		assert.True(t, got.Frustration.Detected)
		assert.Equal(t, []string{signalPersisting, signalRecurring, signalWaiting, signalConsecutive}, got.Frustration.Signals)
	})

	t.Run("agent reply breaks the run", func(t *testing.T) {
		timeline := []domain.TimelineEntry{
			customerMsg("Exports are empty"),
			agentMsg("Thanks, checking now"),
			customerMsg("Here is the log file"),
		}
		got := e.AnalyzeSentiment(context.Background(), domain.Ticket{}, timeline, nil)

		assert.False(t, got.Frustration.Detected)
		assert.Empty(t, got.Frustration.Signals)
	})
}

func TestIsEscalating(t *testing.T) {
	e := newTestEngine(t)

	escalating := []domain.TimelineEntry{
		customerMsg("Reports page shows no data"),
		customerMsg("This is unacceptable and terrible, the export failed again"),
	}
	assert.True(t, e.isEscalating(customerMessages(escalating)))

	steady := []domain.TimelineEntry{
		customerMsg("Reports page shows no data"),
		customerMsg("Any update on the reports page?"),
	}
	assert.False(t, e.isEscalating(customerMessages(steady)))
	assert.False(t, e.isEscalating(customerMessages(steady[:1])))
}

func TestAssessRisk_AlwaysInRange(t *testing.T) {
	labels := []Sentiment{
		{Label: SentimentPositive, Score: 95},
		{Label: SentimentNeutral, Score: 50},
		{Label: SentimentNegative, Score: 20},
	}
	levels := []UrgencyLevel{UrgencyNormal, UrgencyMedium, UrgencyHigh, UrgencyCritical}
	customers := []*domain.Customer{nil, {Tier: domain.CustomerTierTrial}, {Tier: domain.CustomerTierEnterprise}}

	for _, s := range labels {
		for _, level := range levels {
			for signals := 0; signals <= 4; signals++ {
				for _, c := range customers {
					risk := assessRisk(s, Urgency{Level: level}, signals, c)
					assert.GreaterOrEqual(t, risk.Score, 0)
					assert.LessOrEqual(t, risk.Score, 100)
				}
			}
		}
	}

	worst := assessRisk(labels[2], Urgency{Level: UrgencyCritical}, 4, customers[2])
	assert.Equal(t, Risk{Score: 100, Level: "Critical", Color: "red"}, worst)
	calm := assessRisk(labels[0], Urgency{Level: UrgencyNormal}, 0, nil)
	assert.Equal(t, Risk{Score: 50, Level: "Medium", Color: "yellow"}, calm)
}
