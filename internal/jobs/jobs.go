// Package jobs runs the scheduled maintenance work: the nightly overdue
// sweep and due-soon reminders. Money movement stays API-driven; jobs only
// touch derived fields (status, late fee) and notifications.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/port"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper implements the scheduled jobs against the document store.
type Sweeper struct {
	money   port.MoneyStore
	schemes *service.SchemeService
	notifs  *service.NotificationService
	logger  *zap.Logger
}

// NewSweeper creates a new sweeper.
func NewSweeper(money port.MoneyStore, schemes *service.SchemeService, notifs *service.NotificationService, logger *zap.Logger) *Sweeper {
	return &Sweeper{money: money, schemes: schemes, notifs: notifs, logger: logger}
}

// MarkOverdue flips unpaid installments past their due date to Late and
// recomputes the late fee from scratch. Failures on individual rows are
// logged and skipped; the sweep runs again the next night.
func (s *Sweeper) MarkOverdue(ctx context.Context) error {
	now := time.Now()
	today := now.Format("2006-01-02")

	overdue, err := s.money.ListOverdueInstallments(ctx, today)
	if err != nil {
		return fmt.Errorf("list overdue installments: %w", err)
	}

	swept := 0
	for _, inst := range overdue {
		scheme, err := s.schemes.GetScheme(ctx, inst.SchemeID)
		if err != nil {
			s.logger.Warn("overdue sweep: scheme lookup failed",
				zap.String("installment_id", inst.InstallmentID),
				zap.String("scheme_id", inst.SchemeID),
				zap.Error(err),
			)
			continue
		}

		lateFee := service.ComputeLateFee(inst.Amount, scheme.LateFeeRate, inst.DueDate, now)
		if err := s.money.UpdateInstallment(ctx, inst.InstallmentID, map[string]any{
			"status":   domain.InstallmentLate,
			"late_fee": lateFee,
		}); err != nil {
			s.logger.Warn("overdue sweep: update failed",
				zap.String("installment_id", inst.InstallmentID),
				zap.Error(err),
			)
			continue
		}
		swept++

		if _, err := s.notifs.Notify(ctx, inst.MemberID, "overdue",
			"Installment overdue",
			fmt.Sprintf("Installment %s (%s) was due on %s. A late fee of %s now applies.",
				inst.InstallmentID, inst.InstallmentPeriod, inst.DueDate, lateFee.String()),
		); err != nil {
			s.logger.Warn("overdue sweep: notification failed",
				zap.String("installment_id", inst.InstallmentID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("overdue sweep finished",
		zap.Int("candidates", len(overdue)),
		zap.Int("swept", swept),
	)
	return nil
}

// SendDueReminders notifies members whose pending installments fall due
// within the next `days` days.
func (s *Sweeper) SendDueReminders(ctx context.Context, days int) error {
	// No status filter: partially paid installments still owe money and
	// still get a reminder.
	all, err := s.money.ListInstallments(ctx, "", "", "")
	if err != nil {
		return fmt.Errorf("list installments: %w", err)
	}

	today := time.Now()
	horizon := today.AddDate(0, 0, days)
	sent := 0
	for _, inst := range all {
		if !inst.PendingAmount.IsPositive() {
			continue
		}
		due, err := time.Parse("2006-01-02", inst.DueDate)
		if err != nil {
			continue
		}
		if due.Before(today.Truncate(24*time.Hour)) || due.After(horizon) {
			continue
		}

		if _, err := s.notifs.Notify(ctx, inst.MemberID, "due_reminder",
			"Installment due soon",
			fmt.Sprintf("Installment %s of %s is due on %s.",
				inst.InstallmentID, inst.Amount.String(), inst.DueDate),
		); err != nil {
			s.logger.Warn("due reminder failed",
				zap.String("installment_id", inst.InstallmentID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	s.logger.Info("due reminders sent", zap.Int("sent", sent))
	return nil
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler wires the sweeper jobs onto their cron expressions.
func NewScheduler(sweeper *Sweeper, overdueSpec, reminderSpec string, reminderDays int, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New()

	if _, err := c.AddFunc(overdueSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := sweeper.MarkOverdue(ctx); err != nil {
			logger.Error("overdue sweep failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule overdue sweep: %w", err)
	}

	if _, err := c.AddFunc(reminderSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := sweeper.SendDueReminders(ctx, reminderDays); err != nil {
			logger.Error("due reminders failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule due reminders: %w", err)
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins running jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("job scheduler started")
}

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("job scheduler stopped")
}
