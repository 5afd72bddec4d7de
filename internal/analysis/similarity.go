package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

const (
	tagWeight          = 25
	subjectWordWeight  = 15
	sameChannelBonus   = 10
	sameCustomerBonus  = 20
	similarityCutoff   = 20
	similarityCeiling  = 95
	maxComputedMatches = 3
	minSubjectWordLen  = 3
	resolvedResolution = "Resolved via configuration change"
)

// DefaultHistoricalMatches is the built-in curated table of resolved tickets by tag.
func DefaultHistoricalMatches() HistoricalTable {
	return HistoricalTable{
		"ivr": {
			ID:          "TKT-2156",
			Subject:     "IVR audio detection issues after CCaaS migration",
			Status:      domain.TicketStatusResolved,
			Similarity:  87,
			MatchReason: "Similar IVR migration issue",
			Resolution:  "Resolved by updating RTP port configuration to match new platform",
		},
		"chatbot": {
			ID:          "TKT-2089",
			Subject:     "Pulse NLU intent misclassification",
			Status:      domain.TicketStatusResolved,
			Similarity:  82,
			MatchReason: "Similar chatbot testing issue",
			Resolution:  "Resolved by adjusting confidence thresholds and adding custom intents",
		},
		"voice-quality": {
			ID:          "TKT-1987",
			Subject:     "Cruncher MOS degradation under load",
			Status:      domain.TicketStatusResolved,
			Similarity:  91,
			MatchReason: "Similar load testing issue",
			Resolution:  "Root cause was QoS misconfiguration on customer network",
		},
		"monitoring": {
			ID:          "TKT-2201",
			Subject:     "Velocity scheduled tests not executing",
			Status:      domain.TicketStatusResolved,
			Similarity:  89,
			MatchReason: "Same scheduling issue",
			Resolution:  "Agent pool was exhausted - increased pool size resolved issue",
		},
	}
}

type similarityFactors struct {
	sharedTags   int
	sharedWords  int
	sameChannel  bool
	sameCustomer bool
}

func (f similarityFactors) score() int {
	score := f.sharedTags*tagWeight + f.sharedWords*subjectWordWeight
	if f.sameChannel {
		score += sameChannelBonus
	}
	if f.sameCustomer {
		score += sameCustomerBonus
	}
	return score
}

func (f similarityFactors) reason() string {
	reasons := []string{}
	if f.sharedTags > 0 {
		reasons = append(reasons, fmt.Sprintf("%d matching tags", f.sharedTags))
	}
	if f.sharedWords > 0 {
		reasons = append(reasons, "Similar subject")
	}
	if f.sameCustomer {
		reasons = append(reasons, "Same customer")
	}
	if f.sameChannel {
		reasons = append(reasons, "Same channel")
	}
	if len(reasons) == 0 {
		return "Content similarity"
	}
	return strings.Join(reasons, ", ")
}

// FindSimilar ranks the other tickets in tickets by relevance to target and
// appends at most one curated historical match.
func (e *Engine) FindSimilar(ctx context.Context, target domain.Ticket, tickets []domain.Ticket) []SimilarTicket {
	e.simulateLatency(ctx)

	targetWords := words(fold(target.Subject))
	targetTags := make(map[string]struct{}, len(target.Tags))
	for _, tag := range target.Tags {
		targetTags[tag] = struct{}{}
	}

	type scored struct {
		ticket  domain.Ticket
		factors similarityFactors
		score   int
	}
	candidates := []scored{}
	for _, other := range tickets {
		if other.ID == target.ID {
			continue
		}
		f := similarityFactors{
			sharedWords:  sharedWordCount(words(fold(other.Subject)), targetWords, minSubjectWordLen),
			sameChannel:  other.Channel == target.Channel,
			sameCustomer: other.CustomerID == target.CustomerID,
		}
		for _, tag := range other.Tags {
			if _, ok := targetTags[tag]; ok {
				f.sharedTags++
			}
		}
		if s := f.score(); s > similarityCutoff {
			candidates = append(candidates, scored{ticket: other, factors: f, score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > maxComputedMatches {
		candidates = candidates[:maxComputedMatches]
	}

	out := make([]SimilarTicket, 0, len(candidates)+1)
	for _, c := range candidates {
		match := SimilarTicket{
			ID:          c.ticket.ID,
			Subject:     c.ticket.Subject,
			Status:      c.ticket.Status,
			Similarity:  min(c.score, similarityCeiling),
			MatchReason: c.factors.reason(),
		}
		if c.ticket.Status == domain.TicketStatusResolved {
			resolution := resolvedResolution
			match.Resolution = &resolution
		}
		out = append(out, match)
	}

	if hist, ok := e.historicalFor(target); ok {
		out = append(out, hist)
	}
	return out
}

func (e *Engine) historicalFor(target domain.Ticket) (SimilarTicket, bool) {
	for _, tag := range target.Tags {
		rec, ok := e.historical[tag]
		if !ok {
			continue
		}
		resolution := rec.Resolution
		return SimilarTicket{
			ID:           rec.ID,
			Subject:      rec.Subject,
			Status:       rec.Status,
			Similarity:   rec.Similarity,
			MatchReason:  rec.MatchReason,
			Resolution:   &resolution,
			IsHistorical: true,
		}, true
	}
	return SimilarTicket{}, false
}
