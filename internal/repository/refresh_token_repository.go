package repository

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yadavkshivam/Baat-kare/internal/models"
)

type RefreshTokenRepository interface {
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	GetTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	RevokeToken(ctx context.Context, id uuid.UUID) error
	DeleteExpiredTokens(ctx context.Context) error
}

type PostgresRefreshTokenRepo struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepo(pool *pgxpool.Pool) RefreshTokenRepository {
	return &PostgresRefreshTokenRepo{pool: pool}
}

func (r *PostgresRefreshTokenRepo) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const query = `
		INSERT INTO refresh_tokens (id, user_id, token_hashed, user_agent, client_ip, is_revoked, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHashed,
		token.UserAgent,
		token.ClientIP.String(),
		token.IsRevoked,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	return nil
}

func (r *PostgresRefreshTokenRepo) GetTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	const query = `
		SELECT id, user_id, token_hashed, user_agent, client_ip, is_revoked, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hashed = $1 AND NOT is_revoked
	`

	token := &models.RefreshToken{}
	var ip string
	err := r.pool.QueryRow(ctx, query, hash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHashed,
		&token.UserAgent,
		&ip,
		&token.IsRevoked,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	token.ClientIP = net.ParseIP(ip)

	return token, nil
}

func (r *PostgresRefreshTokenRepo) RevokeToken(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE refresh_tokens SET is_revoked = true WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *PostgresRefreshTokenRepo) DeleteExpiredTokens(ctx context.Context) error {
	const query = `DELETE FROM refresh_tokens WHERE expires_at < now() OR is_revoked`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	log.Printf("[REPO] Deleted %d expired refresh tokens", tag.RowsAffected())
	return nil
}
