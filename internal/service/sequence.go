// Package service implements the business operations behind the HTTP API:
// directory management, scheme/group lifecycle, installment collection,
// payouts, transactions, receipts and the member ledger.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/tvsubram/chitfund-api/internal/port"

	"go.opentelemetry.io/otel"
)

var seqTracer = otel.Tracer("service/sequence")

// NextSequenceID returns the id that follows last for the given prefix:
// MEM001 -> MEM002, "" -> MEM001. The counter is zero-padded to three
// digits and keeps growing past 999 (MEM999 -> MEM1000).
func NextSequenceID(prefix, last string) string {
	n := 0
	if strings.HasPrefix(last, prefix) {
		if v, err := strconv.Atoi(last[len(prefix):]); err == nil {
			n = v
		}
	}
	return fmt.Sprintf("%s%03d", prefix, n+1)
}

// NextTransactionID returns the id following last in the TXN<YY><NNN>
// scheme. The counter restarts at 001 whenever the two-digit year embedded
// in last differs from the current year.
func NextTransactionID(last string, now time.Time) string {
	yy := now.Format("06")
	n := 0
	if strings.HasPrefix(last, "TXN") && len(last) > 5 {
		if last[3:5] == yy {
			if v, err := strconv.Atoi(last[5:]); err == nil {
				n = v
			}
		}
	}
	return fmt.Sprintf("TXN%s%03d", yy, n+1)
}

// BranchCode derives the receipt prefix from the branch name: the first
// three letters, uppercased. "Madurai Main" -> "MAD".
func BranchCode(branchName string) string {
	var b strings.Builder
	for _, r := range branchName {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() >= 3 {
				break
			}
		}
	}
	code := b.String()
	if code == "" {
		code = "BRN"
	}
	return code
}

// NextReceiptNo returns the branch-scoped receipt number following last:
// <BRANCHCODE>-<YY>-<NNNNN>. The five-digit counter continues from the
// most recent receipt even when the embedded year rolls over.
func NextReceiptNo(branchCode, last string, now time.Time) string {
	n := 0
	if idx := strings.LastIndex(last, "-"); idx >= 0 {
		if v, err := strconv.Atoi(last[idx+1:]); err == nil {
			n = v
		}
	}
	return fmt.Sprintf("%s-%s-%05d", branchCode, now.Format("06"), n+1)
}

// Sequencer issues the next human-readable id for a table by reading the
// current maximum and incrementing it. The read and the caller's insert
// are separate store calls, so concurrent creators can collide; single
// back-office writers make this acceptable.
type Sequencer struct {
	store port.SequenceStore
}

// NewSequencer creates a sequencer over the given store.
func NewSequencer(store port.SequenceStore) *Sequencer {
	return &Sequencer{store: store}
}

// Next returns the next id for table/column under prefix.
func (s *Sequencer) Next(ctx context.Context, table, column, prefix string) (string, error) {
	ctx, span := seqTracer.Start(ctx, "Sequencer.Next")
	defer span.End()

	last, err := s.store.GetLastID(ctx, table, column, prefix)
	if err != nil {
		return "", fmt.Errorf("get last id for %s: %w", table, err)
	}
	return NextSequenceID(prefix, last), nil
}

// NextTransaction returns the next TXN<YY><NNN> id.
func (s *Sequencer) NextTransaction(ctx context.Context, now time.Time) (string, error) {
	ctx, span := seqTracer.Start(ctx, "Sequencer.NextTransaction")
	defer span.End()

	last, err := s.store.GetLastID(ctx, "transactions", "transaction_id", "TXN"+now.Format("06"))
	if err != nil {
		return "", fmt.Errorf("get last transaction id: %w", err)
	}
	return NextTransactionID(last, now), nil
}

// NextReceiptNo returns the next branch-scoped receipt number for the
// branch with the given name.
func (s *Sequencer) NextReceiptNo(ctx context.Context, branchName string, now time.Time) (string, error) {
	ctx, span := seqTracer.Start(ctx, "Sequencer.NextReceiptNo")
	defer span.End()

	code := BranchCode(branchName)
	last, err := s.store.GetLastReceiptNo(ctx, code)
	if err != nil {
		return "", fmt.Errorf("get last receipt no: %w", err)
	}
	return NextReceiptNo(code, last, now), nil
}
