package service

import (
	"context"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/port"

	"go.opentelemetry.io/otel"
)

var receiptTracer = otel.Tracer("service/receipt")

// ReceiptService serves the read side of receipts; issuance happens inside
// the installment payment flow.
type ReceiptService struct {
	money port.MoneyStore
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(money port.MoneyStore) *ReceiptService {
	return &ReceiptService{money: money}
}

func (s *ReceiptService) ListReceipts(ctx context.Context, memberID, branchID string, page, pageSize int) ([]domain.Receipt, int, error) {
	ctx, span := receiptTracer.Start(ctx, "ReceiptService.ListReceipts")
	defer span.End()

	return s.money.ListReceipts(ctx, memberID, branchID, page, pageSize)
}

func (s *ReceiptService) GetReceipt(ctx context.Context, id string) (*domain.Receipt, error) {
	ctx, span := receiptTracer.Start(ctx, "ReceiptService.GetReceipt")
	defer span.End()

	return s.money.GetReceipt(ctx, id)
}
