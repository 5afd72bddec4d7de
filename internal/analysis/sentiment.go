package analysis

import (
	"context"
	"strings"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

const (
	signalPersisting  = `Issue persisting ("still not working")`
	signalRecurring   = "Recurring issue mentioned"
	signalWaiting     = "Extended wait time mentioned"
	signalConsecutive = "Multiple consecutive customer messages"
	signalEnterprise  = "Enterprise customer"

	escalationDrop = 15
)

// AnalyzeSentiment scores the customer's side of the conversation for
// sentiment, urgency, frustration and overall risk.
func (e *Engine) AnalyzeSentiment(ctx context.Context, ticket domain.Ticket, timeline []domain.TimelineEntry, customer *domain.Customer) SentimentAnalysis {
	e.simulateLatency(ctx)

	messages := customerMessages(timeline)
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, msg.Content)
	}
	text := strings.Join(parts, " ")

	sentiment := e.scoreSentiment(text)
	urgency := e.detectUrgency(fold(text), customer)
	signals := e.detectFrustration(timeline)
	risk := assessRisk(sentiment, urgency, len(signals), customer)

	return SentimentAnalysis{
		Sentiment: sentiment,
		Urgency:   urgency,
		Frustration: Frustration{
			Detected:   len(signals) > 0,
			Signals:    signals,
			Escalating: e.isEscalating(messages),
		},
		Risk:            risk,
		Recommendations: sentimentRecommendations(sentiment, urgency, signals),
	}
}

// scoreSentiment counts lexicon hits in text. Counting is case-insensitive;
// the shouting check looks at the raw casing.
func (e *Engine) scoreSentiment(text string) Sentiment {
	folded := fold(text)
	positive := countPresent(folded, e.lex.PositiveWords)
	negative := countPresent(folded, e.lex.NegativeWords)

	indicators := []string{}
	if strings.Contains(folded, "!!!") || strings.Contains(folded, "???") {
		indicators = append(indicators, "Emphatic punctuation")
	}
	if len(text) > 20 && isShouting(text) {
		indicators = append(indicators, "ALL CAPS usage")
	}
	if negative > 2 {
		indicators = append(indicators, "Multiple negative terms")
	}

	s := Sentiment{Indicators: indicators}
	switch {
	case negative > positive+1:
		s.Label = SentimentNegative
		s.Score = max(20, 50-negative*10)
	case positive > negative+1:
		s.Label = SentimentPositive
		s.Score = min(95, 70+positive*5)
	default:
		s.Label = SentimentNeutral
		s.Score = 50 + (positive-negative)*10
	}
	return s
}

func (e *Engine) detectUrgency(text string, customer *domain.Customer) Urgency {
	u := Urgency{Level: UrgencyNormal, Signals: []string{}}

	for _, p := range e.lex.Urgency {
		if p.Phrase == "" || !strings.Contains(text, p.Phrase) {
			continue
		}
		u.Signals = append(u.Signals, p.Phrase)
		if p.Level.rank() > u.Level.rank() {
			u.Level = p.Level
		}
	}

	for _, re := range e.lex.deadlineRes {
		if match := re.FindString(text); match != "" {
			u.Deadline = &match
			if u.Level == UrgencyNormal {
				u.Level = UrgencyMedium
			}
			break
		}
	}

	if isEnterprise(customer) && u.Level == UrgencyNormal {
		u.Level = UrgencyMedium
		u.Signals = append(u.Signals, signalEnterprise)
	}
	return u
}

// detectFrustration walks the timeline in order and collects distinct
// frustration signals from customer messages. A customer message that
// follows another customer message with no agent reply in between counts
// as a consecutive message; internal notes and system events do not break
// the run.
func (e *Engine) detectFrustration(timeline []domain.TimelineEntry) []string {
	signals := []string{}
	seen := map[string]struct{}{}
	add := func(signal string) {
		if _, ok := seen[signal]; ok {
			return
		}
		seen[signal] = struct{}{}
		signals = append(signals, signal)
	}

	awaitingAgent := false
	for _, entry := range timeline {
		if !entry.IsMessage() {
			continue
		}
		switch entry.Sender {
		case domain.SenderAgent:
			awaitingAgent = false
			continue
		case domain.SenderCustomer:
		default:
			continue
		}

		content := fold(entry.Content)
		if containsAll(content, e.lex.PersistenceMarkers) {
			add(signalPersisting)
		}
		if containsAny(content, e.lex.RecurrenceMarkers) {
			add(signalRecurring)
		}
		if containsAny(content, e.lex.WaitingMarkers) {
			add(signalWaiting)
		}
		if awaitingAgent {
			add(signalConsecutive)
		}
		awaitingAgent = true
	}
	return signals
}

func (e *Engine) isEscalating(messages []domain.TimelineEntry) bool {
	if len(messages) < 2 {
		return false
	}
	first := e.scoreSentiment(messages[0].Content)
	last := e.scoreSentiment(messages[len(messages)-1].Content)
	return last.Score <= first.Score-escalationDrop
}

func assessRisk(sentiment Sentiment, urgency Urgency, frustrationSignals int, customer *domain.Customer) Risk {
	score := 50
	if sentiment.Label == SentimentNegative {
		score += 20
	}
	if sentiment.Score < 30 {
		score += 15
	}
	switch urgency.Level {
	case UrgencyCritical:
		score += 25
	case UrgencyHigh:
		score += 15
	}
	score += frustrationSignals * 10
	if isEnterprise(customer) {
		score += 15
	}
	score = min(100, max(0, score))

	switch {
	case score >= 80:
		return Risk{Score: score, Level: "Critical", Color: "red"}
	case score >= 60:
		return Risk{Score: score, Level: "High", Color: "orange"}
	case score >= 40:
		return Risk{Score: score, Level: "Medium", Color: "yellow"}
	default:
		return Risk{Score: score, Level: "Low", Color: "green"}
	}
}

func sentimentRecommendations(sentiment Sentiment, urgency Urgency, frustrationSignals []string) []Recommendation {
	recs := []Recommendation{}
	if sentiment.Label == SentimentNegative {
		recs = append(recs, Recommendation{
			Action:      "Acknowledge concerns",
			Description: "Start response by acknowledging the customer's frustration",
		})
	}
	if urgency.Level == UrgencyCritical || urgency.Level == UrgencyHigh {
		recs = append(recs, Recommendation{
			Action:      "Prioritize response",
			Description: "Customer has indicated time-sensitive needs",
		})
	}
	if len(frustrationSignals) > 0 {
		recs = append(recs, Recommendation{
			Action:      "Consider call/meeting",
			Description: "Direct conversation may help resolve concerns faster",
		})
	}
	if urgency.Deadline != nil {
		recs = append(recs, Recommendation{
			Action:      "Note deadline: " + *urgency.Deadline,
			Description: "Customer mentioned a specific timeline",
		})
	}
	return recs
}
