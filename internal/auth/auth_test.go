package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-labs/support-insights/internal/domain"
	"github.com/helpdesk-labs/support-insights/pkg/util/errorutil"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, exp, err := tm.GenerateToken("agent-7", domain.StaffRoleTeamLead)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "agent-7", claims.StaffID())
	assert.Equal(t, domain.StaffRoleTeamLead, claims.Role)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	other, _, err := NewTokenManager("other", 5).GenerateToken("agent-7", domain.StaffRoleAgent)
	require.NoError(t, err)
	_, err = tm.ParseToken(other)
	assert.Error(t, err)

	expired := NewTokenManager("secret", 5)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, err := expired.GenerateToken("agent-7", domain.StaffRoleAgent)
	require.NoError(t, err)
	_, err = tm.ParseToken(stale)
	assert.Error(t, err)

	noRole, _, err := tm.GenerateToken("agent-7", "GUEST")
	require.NoError(t, err)
	_, err = tm.ParseToken(noRole)
	assert.Error(t, err)
}

func TestAPIKeyHashing(t *testing.T) {
	hash, err := HashAPIKey("s3cret", 4)
	require.NoError(t, err)

	assert.NoError(t, CompareAPIKey(hash, "s3cret"))
	assert.Error(t, CompareAPIKey(hash, "guess"))
}

func newGuardedApp(tm *TokenManager, roles ...domain.StaffRole) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(errorutil.ToDomainError(err).HTTPStatus).SendString(err.Error())
		},
	})
	app.Get("/guarded", NewAuthMiddleware(tm).Handle, RequireStaffRole(roles...), func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.SendString(principal.Staff.ID + ":" + c.Locals(StaffIDLocal).(string))
	})
	return app
}

func TestMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	agentToken, _, err := tm.GenerateToken("agent-1", domain.StaffRoleAgent)
	require.NoError(t, err)
	leadToken, _, err := tm.GenerateToken("lead-1", domain.StaffRoleTeamLead)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer abc", http.StatusUnauthorized, ""},
		{"role not allowed", "Bearer " + agentToken, http.StatusForbidden, ""},
		{"allowed", "Bearer " + leadToken, http.StatusOK, "lead-1:lead-1"},
	}

	app := newGuardedApp(tm, domain.StaffRoleTeamLead, domain.StaffRoleAdmin)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.body, string(body))
			}
		})
	}
}

func TestRequireStaffRole_AnyRole(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, _, err := tm.GenerateToken("agent-1", domain.StaffRoleAgent)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := newGuardedApp(tm).Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
