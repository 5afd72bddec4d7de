package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpdesk-labs/support-insights/internal/analysis"
	"github.com/helpdesk-labs/support-insights/internal/domain"
	"github.com/helpdesk-labs/support-insights/internal/events"
	"github.com/helpdesk-labs/support-insights/internal/observability"
	"github.com/helpdesk-labs/support-insights/internal/persistence"
	"github.com/helpdesk-labs/support-insights/internal/repository"
	"github.com/helpdesk-labs/support-insights/pkg/util/errorutil"
)

// highRiskThreshold is the risk score at which a high-risk event is emitted.
const highRiskThreshold = 70

// InsightService loads ticket context from the data providers, runs the
// analysis engine over it and reports what happened.
type InsightService struct {
	tickets    repository.TicketRepository
	timelines  repository.TimelineRepository
	customers  repository.CustomerRepository
	articles   repository.KBArticleRepository
	issues     repository.EngineeringIssueRepository
	history    repository.TicketHistoryRepository
	engine     *analysis.Engine
	cache      persistence.AnalysisCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// InsightDependencies bundles collaborators for the insight service.
type InsightDependencies struct {
	TicketRepo   repository.TicketRepository
	TimelineRepo repository.TimelineRepository
	CustomerRepo repository.CustomerRepository
	ArticleRepo  repository.KBArticleRepository
	IssueRepo    repository.EngineeringIssueRepository
	HistoryRepo  repository.TicketHistoryRepository
	Engine       *analysis.Engine
	Cache        persistence.AnalysisCache
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// Actor identifies the staff member behind a mutating call.
type Actor struct {
	StaffID string
	Role    domain.StaffRole
}

// AnalysisOutcome is a full analysis plus whether it came from the cache.
type AnalysisOutcome struct {
	Analysis  analysis.TicketAnalysis
	FromCache bool
}

// TriageOutcome reports the ticket before and after a triage was applied.
type TriageOutcome struct {
	Before  domain.Ticket
	After   domain.Ticket
	Applied analysis.TriageResult
}

// NewInsightService constructs the service.
func NewInsightService(deps InsightDependencies) *InsightService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := deps.Engine
	if engine == nil {
		engine = analysis.NewEngine(analysis.Options{})
	}
	return &InsightService{
		tickets:    deps.TicketRepo,
		timelines:  deps.TimelineRepo,
		customers:  deps.CustomerRepo,
		articles:   deps.ArticleRepo,
		issues:     deps.IssueRepo,
		history:    deps.HistoryRepo,
		engine:     engine,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// ListTickets returns tickets matching filter.
func (s *InsightService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return tickets, nil
}

// AnalyzeTicket returns the five ticket-level analyses, served from the cache when fresh.
func (s *InsightService) AnalyzeTicket(ctx context.Context, ticketID string) (*AnalysisOutcome, error) {
	if s.cache != nil {
		cached, ok := s.cache.Get(ctx, ticketID)
		s.metrics.RecordCache(ok)
		if ok {
			return &AnalysisOutcome{Analysis: *cached, FromCache: true}, nil
		}
	}

	in, err := s.loadInput(ctx, ticketID, true)
	if err != nil {
		return nil, err
	}

	start := s.now()
	result := s.engine.AnalyzeTicket(ctx, in)
	elapsed := s.observe("full", ticketID, start)

	if s.cache != nil {
		s.cache.Set(ctx, result)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventAnalysisCompleted,
		TicketID: ticketID,
		Payload: events.AnalysisCompletedPayload{
			RiskScore:      result.Sentiment.Risk.Score,
			RiskLevel:      result.Sentiment.Risk.Level,
			SuggestedTier:  result.Triage.Tier.Value,
			SimilarCount:   len(result.Similar),
			DurationMillis: elapsed.Milliseconds(),
		},
	})
	s.flagHighRisk(ctx, in, result.Sentiment)

	return &AnalysisOutcome{Analysis: result}, nil
}

// Sentiment runs the sentiment and risk analysis for a ticket.
func (s *InsightService) Sentiment(ctx context.Context, ticketID string) (*analysis.SentimentAnalysis, error) {
	in, err := s.loadInput(ctx, ticketID, false)
	if err != nil {
		return nil, err
	}
	start := s.now()
	result := s.engine.AnalyzeSentiment(ctx, in.Ticket, in.Timeline, in.Customer)
	s.observe("sentiment", ticketID, start)
	s.flagHighRisk(ctx, in, result)
	return &result, nil
}

// Triage classifies an existing ticket from its subject and first message.
func (s *InsightService) Triage(ctx context.Context, ticketID string) (*analysis.TriageResult, error) {
	in, err := s.loadInput(ctx, ticketID, false)
	if err != nil {
		return nil, err
	}
	start := s.now()
	result := s.engine.Triage(ctx, in.Ticket.Subject, firstMessage(in.Timeline), customerTier(in.Customer))
	s.observe("triage", ticketID, start)
	return &result, nil
}

// TriageText classifies a ticket that does not exist yet.
func (s *InsightService) TriageText(ctx context.Context, subject, body string, tier domain.CustomerTier) (*analysis.TriageResult, error) {
	if subject == "" && body == "" {
		return nil, errorutil.NewValidationError("subject or body is required", nil)
	}
	switch tier {
	case "", domain.CustomerTierTrial, domain.CustomerTierPro, domain.CustomerTierEnterprise:
	default:
		return nil, errorutil.NewValidationError("unknown customer tier", map[string]any{"customer_tier": tier})
	}
	start := s.now()
	result := s.engine.Triage(ctx, subject, body, tier)
	s.observe("triage", "", start)
	return &result, nil
}

// Summary condenses a ticket's conversation.
func (s *InsightService) Summary(ctx context.Context, ticketID string) (*analysis.Summary, error) {
	in, err := s.loadInput(ctx, ticketID, false)
	if err != nil {
		return nil, err
	}
	start := s.now()
	result := s.engine.Summarize(ctx, in.Ticket, in.Timeline, in.Customer, in.Issue)
	s.observe("summary", ticketID, start)
	return &result, nil
}

// Similar ranks other tickets by resemblance to this one.
func (s *InsightService) Similar(ctx context.Context, ticketID string) ([]analysis.SimilarTicket, error) {
	in, err := s.loadInput(ctx, ticketID, true)
	if err != nil {
		return nil, err
	}
	start := s.now()
	result := s.engine.FindSimilar(ctx, in.Ticket, in.Tickets)
	s.observe("similar", ticketID, start)
	return result, nil
}

// Replies drafts reply suggestions for the latest customer message.
func (s *InsightService) Replies(ctx context.Context, ticketID string) (*analysis.ReplySuggestions, error) {
	in, err := s.loadInput(ctx, ticketID, true)
	if err != nil {
		return nil, err
	}
	start := s.now()
	result := s.engine.SuggestReplies(ctx, in.Ticket, in.Timeline, in.Articles)
	s.observe("replies", ticketID, start)
	return &result, nil
}

// ApplyTriage merges the triage recommendation into the ticket and records the change.
func (s *InsightService) ApplyTriage(ctx context.Context, ticketID string, actor Actor) (*TriageOutcome, error) {
	var triage analysis.TriageResult
	if cached, ok := s.cachedAnalysis(ctx, ticketID); ok {
		triage = cached.Triage
	} else {
		fresh, err := s.Triage(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		triage = *fresh
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	before := *ticket
	after := triage.ApplyTo(before)
	after.UpdatedAt = s.now().UTC()
	if err := s.tickets.Update(ctx, &after); err != nil {
		return nil, mapRepoError(err, "ticket", ticketID)
	}

	added := addedTags(before.Tags, after.Tags)
	if s.history != nil {
		entry := &domain.TicketHistory{
			TicketID:   ticketID,
			ChangeType: domain.ChangeTypeTriageApplied,
			OldValue:   map[string]any{"tier": before.Tier, "priority": before.Priority, "tags": before.Tags},
			NewValue:   map[string]any{"tier": after.Tier, "priority": after.Priority, "tags": after.Tags},
			CreatedAt:  after.UpdatedAt,
		}
		if actor.StaffID != "" {
			entry.ChangedByID = &actor.StaffID
		}
		if err := s.history.Create(ctx, entry); err != nil {
			s.logger.Warn("record triage history failed", zap.String("ticket_id", ticketID), zap.Error(err))
		}
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, ticketID)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTriageApplied,
		TicketID: ticketID,
		Actor:    eventActor(actor),
		Payload: events.TriageAppliedPayload{
			OldTier:     before.Tier,
			NewTier:     after.Tier,
			OldPriority: before.Priority,
			NewPriority: after.Priority,
			AddedTags:   added,
		},
	})

	s.logger.Info("triage applied",
		zap.String("ticket_id", ticketID),
		zap.String("staff_id", actor.StaffID),
		zap.Int("tier", after.Tier),
		zap.String("priority", string(after.Priority)))

	return &TriageOutcome{Before: before, After: after, Applied: triage}, nil
}

// History lists the audit trail for a ticket.
func (s *InsightService) History(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return entries, nil
}

// DetectKBGaps scans every ticket against the KB catalog.
func (s *InsightService) DetectKBGaps(ctx context.Context, actor Actor) (*analysis.KBGapReport, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	articles, err := s.listArticles(ctx)
	if err != nil {
		return nil, err
	}

	start := s.now()
	report := s.engine.DetectKBGaps(ctx, tickets, articles)
	s.observe("kb_gaps", "", start)

	topics := make([]string, 0, len(report.Gaps))
	for _, gap := range report.Gaps {
		topics = append(topics, gap.Topic)
	}
	s.publishEvent(ctx, events.Event{
		Type:  events.EventKBGapsDetected,
		Actor: eventActor(actor),
		Payload: events.KBGapsDetectedPayload{
			GapCount:       len(report.Gaps),
			Topics:         topics,
			StaleArticles:  len(report.StaleArticles),
			TicketsScanned: len(tickets),
		},
	})
	return &report, nil
}

// loadInput gathers what the analyses read. Missing customer or issue
// records degrade to nil; only an unknown ticket fails.
func (s *InsightService) loadInput(ctx context.Context, ticketID string, withCatalog bool) (analysis.TicketInput, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return analysis.TicketInput{}, err
	}
	in := analysis.TicketInput{Ticket: *ticket}

	timeline, err := s.timelines.ListByTicket(ctx, ticketID)
	if err != nil {
		return analysis.TicketInput{}, errorutil.NewInternalError(err)
	}
	in.Timeline = timeline

	if s.customers != nil && ticket.CustomerID != "" {
		customer, err := s.customers.GetByID(ctx, ticket.CustomerID)
		if err != nil {
			s.logger.Warn("customer lookup degraded",
				zap.String("ticket_id", ticketID),
				zap.String("customer_id", ticket.CustomerID),
				zap.Error(err))
		} else {
			in.Customer = customer
		}
	}

	if s.issues != nil && ticket.LinkedIssueKey != nil {
		issue, err := s.issues.GetByKey(ctx, *ticket.LinkedIssueKey)
		if err != nil {
			s.logger.Warn("engineering issue lookup degraded",
				zap.String("ticket_id", ticketID),
				zap.String("issue_key", *ticket.LinkedIssueKey),
				zap.Error(err))
		} else {
			in.Issue = issue
		}
	}

	if withCatalog {
		tickets, err := s.tickets.ListAll(ctx)
		if err != nil {
			return analysis.TicketInput{}, errorutil.NewInternalError(err)
		}
		in.Tickets = tickets
		articles, err := s.listArticles(ctx)
		if err != nil {
			return analysis.TicketInput{}, err
		}
		in.Articles = articles
	}
	return in, nil
}

func (s *InsightService) listArticles(ctx context.Context) ([]domain.KBArticle, error) {
	if s.articles == nil {
		return nil, nil
	}
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return articles, nil
}

func (s *InsightService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoError(err, "ticket", ticketID)
	}
	return ticket, nil
}

func (s *InsightService) cachedAnalysis(ctx context.Context, ticketID string) (*analysis.TicketAnalysis, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, ticketID)
}

func (s *InsightService) observe(kind, ticketID string, start time.Time) time.Duration {
	elapsed := s.now().Sub(start)
	s.metrics.RecordAnalysis(kind, elapsed)
	s.logger.Debug("analysis finished",
		zap.String("kind", kind),
		zap.String("ticket_id", ticketID),
		zap.Duration("duration", elapsed))
	return elapsed
}

func (s *InsightService) flagHighRisk(ctx context.Context, in analysis.TicketInput, result analysis.SentimentAnalysis) {
	if result.Risk.Score < highRiskThreshold {
		return
	}
	signals := append([]string{}, result.Frustration.Signals...)
	signals = append(signals, result.Urgency.Signals...)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventHighRiskDetected,
		TicketID: in.Ticket.ID,
		Payload: events.HighRiskDetectedPayload{
			RiskScore:  result.Risk.Score,
			CustomerID: in.Ticket.CustomerID,
			Signals:    signals,
		},
	})
}

func (s *InsightService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapRepoError(err error, resource, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errorutil.NewNotFound(resource, map[string]any{"id": id})
	}
	return errorutil.NewInternalError(err)
}

func eventActor(actor Actor) events.Actor {
	if actor.StaffID == "" {
		return events.Actor{Role: actor.Role}
	}
	id := actor.StaffID
	return events.Actor{StaffID: &id, Role: actor.Role}
}

func firstMessage(timeline []domain.TimelineEntry) string {
	for _, entry := range timeline {
		if entry.IsMessage() {
			return entry.Content
		}
	}
	return ""
}

func customerTier(customer *domain.Customer) domain.CustomerTier {
	if customer == nil {
		return ""
	}
	return customer.Tier
}

func addedTags(before, after []string) []string {
	seen := make(map[string]struct{}, len(before))
	for _, tag := range before {
		seen[tag] = struct{}{}
	}
	added := []string{}
	for _, tag := range after {
		if _, ok := seen[tag]; !ok {
			added = append(added, tag)
		}
	}
	return added
}
