package service

import (
	"context"
	"time"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/infra/observability"
	"github.com/tvsubram/chitfund-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var reportTracer = otel.Tracer("service/report")

// ReportService aggregates dashboard figures. The five source reads are
// independent, so they fan out concurrently.
type ReportService struct {
	money   port.MoneyStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewReportService creates a new report service.
func NewReportService(money port.MoneyStore, metrics *observability.Metrics, logger *zap.Logger) *ReportService {
	return &ReportService{money: money, metrics: metrics, logger: logger}
}

// Dashboard returns the branch-level summary (all branches when branchID
// is empty).
func (s *ReportService) Dashboard(ctx context.Context, branchID string) (*domain.DashboardSummary, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.Dashboard")
	defer span.End()

	summary := &domain.DashboardSummary{GeneratedAt: time.Now()}
	today := time.Now().Format(dateLayout)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.money.CountMembers(gctx, branchID)
		summary.Members = n
		return err
	})
	g.Go(func() error {
		n, err := s.money.CountGroupsByStatus(gctx, domain.GroupActive)
		summary.ActiveGroups = n
		return err
	})
	g.Go(func() error {
		n, err := s.money.CountPayoutsByStatus(gctx, domain.PayoutPending)
		summary.PendingPayouts = n
		return err
	})
	g.Go(func() error {
		overdue, err := s.money.ListOverdueInstallments(gctx, today)
		summary.OverdueInstallment = len(overdue)
		return err
	})
	g.Go(func() error {
		total, err := s.money.SumReceiptsOn(gctx, today)
		summary.CollectedToday = total
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("dashboard generated",
		zap.Int("members", summary.Members),
		zap.Int("active_groups", summary.ActiveGroups),
	)
	return summary, nil
}

// MetricsSnapshot exposes the in-process collection counters.
func (s *ReportService) MetricsSnapshot() *observability.CollectionSnapshot {
	return s.metrics.GetCollectionSnapshot()
}
