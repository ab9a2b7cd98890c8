package supabase

import (
	"context"
	"fmt"
	"net/url"
)

// GetLastID returns the lexicographically largest human-readable id in the
// given table/column for the prefix, or "" when no row exists yet. The
// generators chain the next id on this read; the read and the subsequent
// insert are separate calls, so concurrent creates can collide.
func (c *Client) GetLastID(ctx context.Context, table, column, prefix string) (string, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetLastID")
	defer span.End()

	path := fmt.Sprintf("%s?select=%s&%s=like.%s*&order=%s.desc&limit=1",
		table, column, column, url.QueryEscape(prefix), column)

	var rows []map[string]string
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0][column], nil
}

// GetLastReceiptNo returns the most recently issued receipt_no for the
// branch code, or "" when the branch has never issued one. Ordered by
// creation time so the numeric suffix continues across year rollovers.
func (c *Client) GetLastReceiptNo(ctx context.Context, branchCode string) (string, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetLastReceiptNo")
	defer span.End()

	path := fmt.Sprintf("receipts?select=receipt_no&receipt_no=like.%s*&order=created_at.desc&limit=1",
		url.QueryEscape(branchCode+"-"))

	var rows []struct {
		ReceiptNo string `json:"receipt_no"`
	}
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].ReceiptNo, nil
}
