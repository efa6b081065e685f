package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/stockctl/internal/core/domain"
	"github.com/custodia-labs/stockctl/internal/core/ports/driven"
)

// Ensure tokenStore implements the port.
var _ driven.TokenStore = (*tokenStore)(nil)

type tokenStore struct {
	db *sql.DB
}

func (s *tokenStore) Get(ctx context.Context, issuer string) (*domain.SessionToken, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT access_token, refresh_token, token_type, expiry, account, scope, created_at
		FROM session_tokens WHERE issuer = ?`, issuer)

	token := domain.SessionToken{Issuer: issuer}
	var expiry sql.NullTime
	err := row.Scan(&token.AccessToken, &token.RefreshToken, &token.TokenType,
		&expiry, &token.Account, &token.Scope, &token.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session token: %w", err)
	}
	if expiry.Valid {
		token.Expiry = expiry.Time
	}
	return &token, nil
}

func (s *tokenStore) Put(ctx context.Context, token *domain.SessionToken) error {
	createdAt := token.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	var expiry interface{}
	if !token.Expiry.IsZero() {
		expiry = token.Expiry
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_tokens
			(issuer, access_token, refresh_token, token_type, expiry, account, scope, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(issuer) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			account = excluded.account,
			scope = excluded.scope,
			created_at = excluded.created_at`,
		token.Issuer, token.AccessToken, token.RefreshToken, token.TokenType,
		expiry, token.Account, token.Scope, createdAt)
	if err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	return nil
}

func (s *tokenStore) Clear(ctx context.Context, issuer string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE issuer = ?`, issuer); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}
