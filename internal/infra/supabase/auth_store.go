package supabase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tvsubram/chitfund-api/internal/domain"
)

// ============================================================
// Refresh tokens
// ============================================================

func (c *Client) StoreRefreshToken(ctx context.Context, employeeID, tokenHash string, expiresAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Supabase.StoreRefreshToken")
	defer span.End()

	data := map[string]any{
		"employee_id": employeeID,
		"token_hash":  tokenHash,
		"expires_at":  expiresAt.UTC().Format(time.RFC3339),
		"revoked":     false,
	}
	_, err := c.doPost(ctx, "refresh_tokens", data)
	return err
}

func (c *Client) GetRefreshToken(ctx context.Context, tokenHash string) (*domain.AuthRefreshToken, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetRefreshToken")
	defer span.End()

	path := fmt.Sprintf("refresh_tokens?token_hash=eq.%s&revoked=eq.false&limit=1", url.QueryEscape(tokenHash))
	var rows []domain.AuthRefreshToken
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrUnauthorized{Message: "refresh token not recognized"}
	}
	return &rows[0], nil
}

func (c *Client) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, span := tracer.Start(ctx, "Supabase.RevokeRefreshToken")
	defer span.End()

	path := fmt.Sprintf("refresh_tokens?token_hash=eq.%s", url.QueryEscape(tokenHash))
	return c.doPatch(ctx, path, map[string]any{"revoked": true})
}

func (c *Client) RevokeAllRefreshTokens(ctx context.Context, employeeID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.RevokeAllRefreshTokens")
	defer span.End()

	path := fmt.Sprintf("refresh_tokens?employee_id=eq.%s&revoked=eq.false", url.QueryEscape(employeeID))
	return c.doPatch(ctx, path, map[string]any{"revoked": true})
}
