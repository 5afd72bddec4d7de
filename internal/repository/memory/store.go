// Package memory provides repository implementations over an in-process
// catalog loaded from a YAML fixture. It backs the service when no database
// is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/helpdesk-labs/support-insights/internal/domain"
	"github.com/helpdesk-labs/support-insights/internal/repository"
)

// Catalog is the fixture document layout.
type Catalog struct {
	Customers  []domain.Customer                 `yaml:"customers"`
	Tickets    []domain.Ticket                   `yaml:"tickets"`
	Timelines  map[string][]domain.TimelineEntry `yaml:"timelines"`
	KBArticles []domain.KBArticle                `yaml:"kb_articles"`
	Issues     []domain.EngineeringIssue         `yaml:"issues"`
}

// Store holds the catalog. All accessors return copies.
type Store struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
	tickets   []domain.Ticket
	timelines map[string][]domain.TimelineEntry
	articles  []domain.KBArticle
	issues    map[string]domain.EngineeringIssue
	history   map[string][]domain.TicketHistory
	now       func() time.Time
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Store, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	return New(catalog)
}

// New builds a Store from an in-memory catalog.
func New(catalog Catalog) (*Store, error) {
	s := &Store{
		customers: make(map[string]domain.Customer, len(catalog.Customers)),
		tickets:   make([]domain.Ticket, 0, len(catalog.Tickets)),
		timelines: make(map[string][]domain.TimelineEntry, len(catalog.Timelines)),
		articles:  append([]domain.KBArticle{}, catalog.KBArticles...),
		issues:    make(map[string]domain.EngineeringIssue, len(catalog.Issues)),
		history:   map[string][]domain.TicketHistory{},
		now:       time.Now,
	}

	for _, c := range catalog.Customers {
		if c.ID == "" {
			return nil, fmt.Errorf("customer without id")
		}
		s.customers[c.ID] = c
	}

	seen := map[string]struct{}{}
	for _, t := range catalog.Tickets {
		if t.ID == "" {
			return nil, fmt.Errorf("ticket without id")
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("duplicate ticket %s", t.ID)
		}
		seen[t.ID] = struct{}{}
		s.tickets = append(s.tickets, t)
	}

	for ticketID, entries := range catalog.Timelines {
		if _, ok := seen[ticketID]; !ok {
			return nil, fmt.Errorf("timeline for unknown ticket %s", ticketID)
		}
		ordered := make([]domain.TimelineEntry, len(entries))
		for i, e := range entries {
			e.TicketID = ticketID
			ordered[i] = e
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
		})
		s.timelines[ticketID] = ordered
	}

	for _, issue := range catalog.Issues {
		s.issues[issue.Key] = issue
	}
	return s, nil
}

// Tickets returns the ticket repository view.
func (s *Store) Tickets() repository.TicketRepository { return ticketRepo{s} }

// Timelines returns the timeline repository view.
func (s *Store) Timelines() repository.TimelineRepository { return timelineRepo{s} }

// Customers returns the customer repository view.
func (s *Store) Customers() repository.CustomerRepository { return customerRepo{s} }

// KBArticles returns the knowledge-base repository view.
func (s *Store) KBArticles() repository.KBArticleRepository { return kbRepo{s} }

// Issues returns the engineering issue repository view.
func (s *Store) Issues() repository.EngineeringIssueRepository { return issueRepo{s} }

// History returns the ticket history repository view.
func (s *Store) History() repository.TicketHistoryRepository { return historyRepo{s} }

type ticketRepo struct{ s *Store }

func (r ticketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tickets {
		if t.ID == id {
			cp := cloneTicket(t)
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r ticketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []domain.Ticket{}
	for _, t := range r.s.tickets {
		if matchesFilter(t, filter) {
			matched = append(matched, cloneTicket(t))
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(filter.Offset, 0)
	if offset >= len(matched) {
		return []domain.Ticket{}, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}

func (r ticketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Ticket, 0, len(r.s.tickets))
	for _, t := range r.s.tickets {
		out = append(out, cloneTicket(t))
	}
	return out, nil
}

func (r ticketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, t := range r.s.tickets {
		if t.ID == ticket.ID {
			ticket.UpdatedAt = r.s.now().UTC()
			r.s.tickets[i] = cloneTicket(*ticket)
			return nil
		}
	}
	return repository.ErrNotFound
}

func matchesFilter(t domain.Ticket, f repository.TicketFilter) bool {
	if f.CustomerID != nil && t.CustomerID != *f.CustomerID {
		return false
	}
	if len(f.Statuses) > 0 && !containsValue(f.Statuses, t.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !containsValue(f.Priorities, t.Priority) {
		return false
	}
	if f.Tag != nil && !t.HasTag(*f.Tag) {
		return false
	}
	if f.SearchTerm != nil {
		term := strings.ToLower(strings.TrimSpace(*f.SearchTerm))
		if term != "" && !strings.Contains(strings.ToLower(t.Subject), term) && !strings.Contains(strings.ToLower(t.Preview), term) {
			return false
		}
	}
	return true
}

func containsValue[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

type timelineRepo struct{ s *Store }

func (r timelineRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TimelineEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.TimelineEntry{}, r.s.timelines[ticketID]...), nil
}

type customerRepo struct{ s *Store }

func (r customerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

type kbRepo struct{ s *Store }

func (r kbRepo) List(_ context.Context) ([]domain.KBArticle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.KBArticle{}, r.s.articles...), nil
}

type issueRepo struct{ s *Store }

func (r issueRepo) GetByKey(_ context.Context, key string) (*domain.EngineeringIssue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	issue, ok := r.s.issues[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &issue, nil
}

type historyRepo struct{ s *Store }

func (r historyRepo) Create(_ context.Context, history *domain.TicketHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	history.CreatedAt = r.s.now().UTC()
	r.s.history[history.TicketID] = append(r.s.history[history.TicketID], *history)
	return nil
}

func (r historyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.TicketHistory{}, r.s.history[ticketID]...), nil
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	t.Tags = append([]string{}, t.Tags...)
	t.Channels = append([]domain.Channel{}, t.Channels...)
	return t
}
