package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequenceID(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		last   string
		want   string
	}{
		{"first id", "MEM", "", "MEM001"},
		{"increments", "MEM", "MEM001", "MEM002"},
		{"zero padded", "MEM", "MEM009", "MEM010"},
		{"grows past padding", "MEM", "MEM999", "MEM1000"},
		{"keeps growing", "MEM", "MEM1000", "MEM1001"},
		{"foreign prefix ignored", "GRP", "MEM042", "GRP001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.NextSequenceID(tt.prefix, tt.last))
		})
	}
}

func TestNextTransactionID(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "TXN26001", service.NextTransactionID("", now))
	assert.Equal(t, "TXN26043", service.NextTransactionID("TXN26042", now))

	// Counter restarts when the embedded year differs from now.
	assert.Equal(t, "TXN26001", service.NextTransactionID("TXN25917", now))
}

func TestBranchCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "Madurai Main", "MAD"},
		{"lowercase", "chennai", "CHE"},
		{"skips non-letters", "12 Salem Road", "SAL"},
		{"short name", "Po", "PO"},
		{"no letters falls back", "123", "BRN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.BranchCode(tt.in))
		})
	}
}

func TestNextReceiptNo(t *testing.T) {
	now := time.Date(2026, time.January, 2, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "MAD-26-00001", service.NextReceiptNo("MAD", "", now))
	assert.Equal(t, "MAD-26-00043", service.NextReceiptNo("MAD", "MAD-26-00042", now))

	// The five-digit counter carries across a year rollover; only the
	// embedded year changes.
	assert.Equal(t, "MAD-26-00100", service.NextReceiptNo("MAD", "MAD-25-00099", now))
}

func TestSequencerNext(t *testing.T) {
	store := newFakeStore()
	store.lastIDs["members"] = "MEM007"
	seq := service.NewSequencer(store)

	id, err := seq.Next(context.Background(), "members", "member_id", "MEM")
	require.NoError(t, err)
	assert.Equal(t, "MEM008", id)
}

func TestSequencerNextTransaction_YearReset(t *testing.T) {
	store := newFakeStore()
	store.lastIDs["transactions"] = "TXN25321"
	seq := service.NewSequencer(store)

	// A new year finds no ids under the TXN<YY> prefix, so the counter
	// naturally restarts at 001.
	id, err := seq.NextTransaction(context.Background(), time.Date(2026, time.January, 1, 0, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "TXN26001", id)
}

func TestSequencerNextReceiptNo(t *testing.T) {
	store := newFakeStore()
	store.lastReceiptNo["MAD"] = "MAD-26-00009"
	seq := service.NewSequencer(store)

	no, err := seq.NextReceiptNo(context.Background(), "Madurai Main", time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "MAD-26-00010", no)
}
