// Package analysis turns a ticket, its timeline and customer data into
// structured judgments: sentiment and risk, triage, summary, similar
// tickets, reply drafts and knowledge-base gaps.
//
// Every analyzer is total and side-effect free. Missing optional input
// (no customer, empty timeline, no linked issue) yields neutral defaults.
package analysis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

// HistoricalTable maps a tag to the curated resolved ticket shown for it.
type HistoricalTable map[string]domain.HistoricalMatch

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Lexicon    *Lexicon
	Random     RandomSource
	Clock      func() time.Time
	Historical HistoricalTable
	// Latency is the simulated processing delay applied before each analysis.
	Latency time.Duration
}

// Engine runs the heuristic analyses.
type Engine struct {
	lex        *Lexicon
	rand       RandomSource
	now        func() time.Time
	historical HistoricalTable
	latency    time.Duration
}

// TicketInput is everything the ticket-level analyses read.
type TicketInput struct {
	Ticket   domain.Ticket
	Timeline []domain.TimelineEntry
	Customer *domain.Customer
	Issue    *domain.EngineeringIssue
	Tickets  []domain.Ticket
	Articles []domain.KBArticle
}

// NewEngine builds an Engine.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		lex:        opts.Lexicon,
		rand:       opts.Random,
		now:        opts.Clock,
		historical: opts.Historical,
		latency:    opts.Latency,
	}
	if e.lex == nil {
		e.lex = DefaultLexicon()
	}
	if e.rand == nil {
		e.rand = globalRandom{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.historical == nil {
		e.historical = DefaultHistoricalMatches()
	}
	return e
}

// AnalyzeTicket runs sentiment, triage, summary, similarity and reply
// suggestions concurrently and waits for all of them.
func (e *Engine) AnalyzeTicket(ctx context.Context, in TicketInput) TicketAnalysis {
	result := TicketAnalysis{TicketID: in.Ticket.ID}

	var customerTier domain.CustomerTier
	if in.Customer != nil {
		customerTier = in.Customer.Tier
	}

	var g errgroup.Group
	g.Go(func() error {
		result.Sentiment = e.AnalyzeSentiment(ctx, in.Ticket, in.Timeline, in.Customer)
		return nil
	})
	g.Go(func() error {
		result.Triage = e.Triage(ctx, in.Ticket.Subject, firstMessageBody(in.Timeline), customerTier)
		return nil
	})
	g.Go(func() error {
		result.Summary = e.Summarize(ctx, in.Ticket, in.Timeline, in.Customer, in.Issue)
		return nil
	})
	g.Go(func() error {
		result.Similar = e.FindSimilar(ctx, in.Ticket, in.Tickets)
		return nil
	})
	g.Go(func() error {
		result.Replies = e.SuggestReplies(ctx, in.Ticket, in.Timeline, in.Articles)
		return nil
	})
	_ = g.Wait()

	result.GeneratedAt = e.now().UTC()
	return result
}

// simulateLatency waits for the configured delay. Cancellation only cuts the wait short;
// the analysis itself always completes.
func (e *Engine) simulateLatency(ctx context.Context) {
	if e.latency <= 0 {
		return
	}
	timer := time.NewTimer(e.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func firstMessageBody(timeline []domain.TimelineEntry) string {
	for _, entry := range timeline {
		if entry.IsMessage() {
			return entry.Content
		}
	}
	return ""
}

func customerMessages(timeline []domain.TimelineEntry) []domain.TimelineEntry {
	out := make([]domain.TimelineEntry, 0, len(timeline))
	for _, entry := range timeline {
		if entry.IsCustomerMessage() {
			out = append(out, entry)
		}
	}
	return out
}

func lastCustomerMessage(timeline []domain.TimelineEntry) string {
	for i := len(timeline) - 1; i >= 0; i-- {
		if timeline[i].IsCustomerMessage() {
			return timeline[i].Content
		}
	}
	return ""
}

func isEnterprise(customer *domain.Customer) bool {
	return customer != nil && customer.Tier == domain.CustomerTierEnterprise
}
