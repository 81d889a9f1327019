package application

import (
	"context"
	"fmt"

	"github.com/tashivar/backoffice/internal/domain"
	apperrors "github.com/tashivar/backoffice/pkg/errors"
	"github.com/tashivar/backoffice/pkg/logging"
)

// CommissionService manages commission rules and ad-hoc previews. Rules
// only affect orders created after the change; existing orders keep their
// snapshot.
type CommissionService struct {
	rulesRepo domain.CommissionRuleRepository
	logger    *logging.Logger
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(rulesRepo domain.CommissionRuleRepository, logger *logging.Logger) *CommissionService {
	return &CommissionService{rulesRepo: rulesRepo, logger: logger}
}

// UpsertRule replaces the rule for one product type
func (s *CommissionService) UpsertRule(ctx context.Context, cmd UpsertCommissionRuleCommand) (*domain.CommissionRule, error) {
	distribution := make([]domain.DistributionShare, 0, len(cmd.Distribution))
	for _, in := range cmd.Distribution {
		distribution = append(distribution, domain.DistributionShare{
			Recipient: in.Recipient,
			Percent:   in.Percent,
		})
	}

	rule, err := domain.NewCommissionRule(domain.ProductType(cmd.ProductType), cmd.Rate, distribution)
	if err != nil {
		return nil, apperrors.MapDomainError(err)
	}

	if err := s.rulesRepo.Upsert(ctx, rule); err != nil {
		s.logger.WithError(err).Error("Failed to upsert commission rule", "productType", cmd.ProductType)
		return nil, fmt.Errorf("failed to upsert commission rule: %w", err)
	}

	s.logger.Event(ctx, "commission.rule-updated", map[string]any{
		"productType": cmd.ProductType,
		"rate":        cmd.Rate,
	})
	return rule, nil
}

// ListRules returns the effective rules for every product type, filling in
// the built-in defaults for types without a stored rule.
func (s *CommissionService) ListRules(ctx context.Context) ([]*domain.CommissionRule, error) {
	stored, err := s.rulesRepo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list commission rules")
		return nil, fmt.Errorf("failed to list commission rules: %w", err)
	}

	rules := domain.DefaultRuleSet()
	for _, rule := range stored {
		rules[rule.ProductType] = rule
	}

	result := make([]*domain.CommissionRule, 0, len(rules))
	for _, productType := range []domain.ProductType{domain.ProductFabric, domain.ProductReadymade} {
		result = append(result, rules[productType])
	}
	return result, nil
}

// Preview computes the commission a set of line items would carry, without
// creating anything.
func (s *CommissionService) Preview(ctx context.Context, items []domain.LineItem) (float64, []domain.CommissionShare, error) {
	stored, err := s.rulesRepo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load commission rules")
		return 0, nil, fmt.Errorf("failed to load commission rules: %w", err)
	}

	rules := domain.DefaultRuleSet()
	for _, rule := range stored {
		rules[rule.ProductType] = rule
	}

	total, shares, err := domain.ComputeCommission(items, rules)
	if err != nil {
		return 0, nil, apperrors.MapDomainError(err)
	}
	return total, shares, nil
}
