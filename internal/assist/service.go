package assist

import (
	"context"

	"go.uber.org/zap"

	"github.com/dinehub/orderflow/internal/governor"
	"github.com/dinehub/orderflow/internal/logger"
)

// Provider generates text for tenant prompts
type Provider interface {
	// Generate requests one completion from the provider
	Generate(ctx context.Context, tenantID, prompt string) (string, error)
}

// Service wraps every provider call in the tenant governor
type Service struct {
	provider Provider
	governor *governor.Governor
}

// NewService creates new assist Service instance
func NewService(provider Provider, gov *governor.Governor) *Service {
	return &Service{
		provider: provider,
		governor: gov,
	}
}

// Generate runs one governed provider call for tenant. Rate limit and
// breaker rejections come back before the provider is ever invoked.
func (s *Service) Generate(ctx context.Context, tenantID, prompt string) (string, error) {
	if err := s.governor.Allow(tenantID); err != nil {
		logger.Log.Debug("assist call rejected by governor",
			zap.String("tenant", tenantID),
			zap.Error(err))
		return "", err
	}

	text, err := s.provider.Generate(ctx, tenantID, prompt)
	s.governor.Record(tenantID, err)
	if err != nil {
		logger.Log.Error("generation provider call failed",
			zap.String("tenant", tenantID),
			zap.Error(err))
		return "", err
	}

	return text, nil
}
