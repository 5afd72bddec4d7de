package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/helpdesk-labs/support-insights/internal/auth"
	"github.com/helpdesk-labs/support-insights/internal/config"
	"github.com/helpdesk-labs/support-insights/internal/domain"
	apperrors "github.com/helpdesk-labs/support-insights/pkg/util/errorutil"
)

// TokenGrant is an issued access token.
type TokenGrant struct {
	Token     string
	ExpiresAt time.Time
	Staff     domain.StaffMember
}

// AuthService exchanges the shared staff API key for role-bearing tokens.
type AuthService struct {
	tokenMgr   *auth.TokenManager
	apiKeyHash string
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, tokenMgr *auth.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		tokenMgr:   tokenMgr,
		apiKeyHash: cfg.Auth.APIKeyHash,
		logger:     logger,
	}
}

// IssueToken verifies apiKey and signs a token for the agent.
func (s *AuthService) IssueToken(_ context.Context, agentID string, role domain.StaffRole, apiKey string) (*TokenGrant, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return nil, apperrors.NewValidationError("agent_id is required", nil)
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if s.apiKeyHash == "" {
		return nil, apperrors.NewUnauthorized("token issuance is disabled")
	}
	if err := auth.CompareAPIKey(s.apiKeyHash, apiKey); err != nil {
		s.logger.Warn("rejected api key", zap.String("agent_id", agentID))
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(agentID, role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &TokenGrant{
		Token:     token,
		ExpiresAt: exp,
		Staff:     domain.StaffMember{ID: agentID, Role: role},
	}, nil
}
