package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/infra/observability"
	"github.com/tvsubram/chitfund-api/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var schemeTracer = otel.Tracer("service/scheme")

// defaultLateFeeRate applies when a scheme is created without one: 2% of
// the installment amount per day late.
var defaultLateFeeRate = decimal.NewFromFloat(0.02)

// SchemeService manages chit schemes. Scheme records sit on every money
// path (installment amounts, late fee rates, durations), so reads go
// through a TTL cache.
type SchemeService struct {
	store   port.SchemeStore
	cache   port.Cache[*domain.Scheme]
	seq     *Sequencer
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewSchemeService creates a new scheme service.
func NewSchemeService(store port.SchemeStore, cache port.Cache[*domain.Scheme], seq *Sequencer, metrics *observability.Metrics, logger *zap.Logger) *SchemeService {
	return &SchemeService{store: store, cache: cache, seq: seq, metrics: metrics, logger: logger}
}

func (s *SchemeService) CreateScheme(ctx context.Context, req *domain.CreateSchemeRequest) (*domain.Scheme, error) {
	ctx, span := schemeTracer.Start(ctx, "SchemeService.CreateScheme")
	defer span.End()

	if strings.TrimSpace(req.Name) == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "scheme name is required"}
	}
	if !req.TotalAmount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "total_amount", Message: "total amount must be positive"}
	}
	if !req.InstallmentAmount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "installment_amount", Message: "installment amount must be positive"}
	}
	if req.DurationMonths <= 0 {
		return nil, &domain.ErrValidation{Field: "duration_months", Message: "duration must be positive"}
	}
	if req.MinMembers <= 0 || req.MaxMembers < req.MinMembers {
		return nil, &domain.ErrValidation{Field: "min_members", Message: "member bounds invalid"}
	}

	frequency := req.Frequency
	if frequency == "" {
		frequency = domain.FrequencyMonthly
	}
	switch frequency {
	case domain.FrequencyMonthly, domain.FrequencyWeekly, domain.FrequencyDaily:
	default:
		return nil, &domain.ErrValidation{Field: "frequency", Message: "frequency must be Monthly, Weekly or Daily"}
	}

	lateFeeRate := req.LateFeeRate
	if lateFeeRate.IsZero() {
		lateFeeRate = defaultLateFeeRate
	}

	schemeID, err := s.seq.Next(ctx, "schemes", "scheme_id", "SCH")
	if err != nil {
		return nil, err
	}

	scheme := &domain.Scheme{
		ID:                uuid.NewString(),
		SchemeID:          schemeID,
		Name:              req.Name,
		TotalAmount:       req.TotalAmount,
		InstallmentAmount: req.InstallmentAmount,
		DurationMonths:    req.DurationMonths,
		MinMembers:        req.MinMembers,
		MaxMembers:        req.MaxMembers,
		Frequency:         frequency,
		CommissionRate:    req.CommissionRate,
		LateFeeRate:       lateFeeRate,
		Active:            true,
	}

	created, err := s.store.CreateScheme(ctx, scheme)
	if err != nil {
		return nil, fmt.Errorf("create scheme: %w", err)
	}

	s.cache.Set(created.SchemeID, created)
	s.logger.Info("scheme created",
		zap.String("scheme_id", created.SchemeID),
		zap.String("total_amount", created.TotalAmount.String()),
	)
	return created, nil
}

func (s *SchemeService) ListSchemes(ctx context.Context, activeOnly bool) ([]domain.Scheme, error) {
	ctx, span := schemeTracer.Start(ctx, "SchemeService.ListSchemes")
	defer span.End()

	return s.store.ListSchemes(ctx, activeOnly)
}

// GetScheme resolves a scheme by either id, consulting the cache first.
func (s *SchemeService) GetScheme(ctx context.Context, id string) (*domain.Scheme, error) {
	ctx, span := schemeTracer.Start(ctx, "SchemeService.GetScheme")
	defer span.End()

	if cached, ok := s.cache.Get(id); ok {
		s.metrics.IncrCacheHit("scheme")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("scheme")

	scheme, err := s.store.GetScheme(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(scheme.SchemeID, scheme)
	return scheme, nil
}

func (s *SchemeService) UpdateScheme(ctx context.Context, id string, updates map[string]any) (*domain.Scheme, error) {
	ctx, span := schemeTracer.Start(ctx, "SchemeService.UpdateScheme")
	defer span.End()

	scheme, err := s.store.GetScheme(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := filterUpdates(updates, "name", "commission_rate", "late_fee_rate", "active")
	if len(allowed) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no updatable fields"}
	}
	if err := s.store.UpdateScheme(ctx, scheme.SchemeID, allowed); err != nil {
		return nil, fmt.Errorf("update scheme: %w", err)
	}

	s.cache.Delete(scheme.SchemeID)
	s.cache.Delete(scheme.ID)
	return s.store.GetScheme(ctx, scheme.SchemeID)
}
