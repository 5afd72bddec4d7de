package memory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-labs/support-insights/internal/domain"
	"github.com/helpdesk-labs/support-insights/internal/repository"
)

func loadSeed(t *testing.T) *Store {
	t.Helper()
	store, err := LoadFile(filepath.Join("..", "..", "..", "data", "seed.yaml"))
	require.NoError(t, err)
	return store
}

func TestLoadFile_Seed(t *testing.T) {
	ctx := context.Background()
	store := loadSeed(t)

	all, err := store.Tickets().ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	ticket, err := store.Tickets().GetByID(ctx, "TKT-2847")
	require.NoError(t, err)
	require.NotNil(t, ticket.LinkedIssueKey)
	assert.Equal(t, "ENG-4521", *ticket.LinkedIssueKey)
	assert.Equal(t, []string{"ivr", "genesys", "audio-detection", "migration"}, ticket.Tags)

	timeline, err := store.Timelines().ListByTicket(ctx, "TKT-2847")
	require.NoError(t, err)
	require.Len(t, timeline, 9)
	assert.Equal(t, "TKT-2847", timeline[0].TicketID)
	assert.Equal(t, domain.SenderCustomer, timeline[0].Sender)
	assert.True(t, timeline[4].Internal)

	customer, err := store.Customers().GetByID(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CustomerTierEnterprise, customer.Tier)
	require.NotNil(t, customer.Account)
	assert.Equal(t, int64(1500000), customer.Account.ARR)

	issue, err := store.Issues().GetByKey(ctx, "ENG-4518")
	require.NoError(t, err)
	assert.Equal(t, "In Progress", issue.Status)

	articles, err := store.KBArticles().List(ctx)
	require.NoError(t, err)
	assert.Len(t, articles, 8)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := loadSeed(t)

	_, err := store.Tickets().GetByID(ctx, "TKT-0")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Customers().GetByID(ctx, "cust-0")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Issues().GetByKey(ctx, "ENG-0")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.Tickets().Update(ctx, &domain.Ticket{ID: "TKT-0"}), repository.ErrNotFound)

	timeline, err := store.Timelines().ListByTicket(ctx, "TKT-0")
	require.NoError(t, err)
	assert.Empty(t, timeline)
}

func TestTicketList_Filters(t *testing.T) {
	ctx := context.Background()
	store := loadSeed(t)
	search := "velocity"
	tag := "chatbot"

	waiting, err := store.Tickets().List(ctx, repository.TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusWaiting}})
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, "TKT-2849", waiting[0].ID)

	found, err := store.Tickets().List(ctx, repository.TicketFilter{SearchTerm: &search})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "TKT-2850", found[0].ID)

	tagged, err := store.Tickets().List(ctx, repository.TicketFilter{Tag: &tag})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "TKT-2848", tagged[0].ID)

	page, err := store.Tickets().List(ctx, repository.TicketFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page, 1)
	empty, err := store.Tickets().List(ctx, repository.TicketFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTicketUpdate_IsolatedCopies(t *testing.T) {
	ctx := context.Background()
	store := loadSeed(t)

	ticket, err := store.Tickets().GetByID(ctx, "TKT-2850")
	require.NoError(t, err)
	ticket.Tags = append(ticket.Tags, "ivr")

	again, err := store.Tickets().GetByID(ctx, "TKT-2850")
	require.NoError(t, err)
	assert.NotContains(t, again.Tags, "ivr")

	ticket.Tier = 2
	require.NoError(t, store.Tickets().Update(ctx, ticket))
	updated, err := store.Tickets().GetByID(ctx, "TKT-2850")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Tier)
	assert.Contains(t, updated.Tags, "ivr")
}

func TestHistory_CreateAssignsID(t *testing.T) {
	ctx := context.Background()
	store := loadSeed(t)

	entry := &domain.TicketHistory{TicketID: "TKT-2847", ChangeType: domain.ChangeTypeTriageApplied}
	require.NoError(t, store.History().Create(ctx, entry))
	assert.NotEmpty(t, entry.ID)

	list, err := store.History().ListByTicket(ctx, "TKT-2847")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entry.ID, list[0].ID)
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte("tickets:\n  - id: A\n  - id: A\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("timelines:\n  GHOST:\n    - id: x\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("customers: [oops"))
	assert.Error(t, err)
}
