package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-labs/support-insights/internal/domain"
)

func TestBuildTicketListQuery_Defaults(t *testing.T) {
	query, args, err := buildTicketListQuery(TicketFilter{}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM tickets")
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY updated_at DESC, id ASC LIMIT 50 OFFSET 0")
	assert.Empty(t, args)
}

func TestBuildTicketListQuery_AllFilters(t *testing.T) {
	customer := "cust-1"
	tag := "ivr"
	search := "  genesys "
	filter := TicketFilter{
		CustomerID: &customer,
		Statuses:   []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusWaiting},
		Priorities: []domain.TicketPriority{domain.TicketPriorityHigh},
		Tag:        &tag,
		SearchTerm: &search,
		Limit:      10,
		Offset:     20,
	}

	query, args, err := buildTicketListQuery(filter).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "customer_id = $1")
	assert.Contains(t, query, "status IN ($2,$3)")
	assert.Contains(t, query, "priority IN ($4)")
	assert.Contains(t, query, "$5 = ANY(tags)")
	assert.Contains(t, query, "(subject ILIKE $6 OR preview ILIKE $7)")
	assert.Contains(t, query, "LIMIT 10 OFFSET 20")
	assert.Equal(t, []any{"cust-1", domain.TicketStatusOpen, domain.TicketStatusWaiting, domain.TicketPriorityHigh, "ivr", "%genesys%", "%genesys%"}, args)
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(fmt.Errorf("row: %w", pgx.ErrNoRows)), ErrNotFound)
	other := fmt.Errorf("boom")
	assert.Equal(t, other, translate(other))
	assert.NoError(t, translate(nil))
}
