package resets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/growthpods/growthpods/internal/common"
	"github.com/growthpods/growthpods/internal/dbx"
	"github.com/growthpods/growthpods/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query :=
		`INSERT INTO password_resets (user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindValid(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordReset, error) {
	query :=
		`SELECT id, user_id, token_hash, expires_at, created_at FROM password_resets
		 WHERE token_hash = $1 AND expires_at > $2`

	pr := &models.PasswordReset{}
	err := r.db.QueryRowContext(ctx, query, tokenHash, now).
		Scan(&pr.ID, &pr.UserID, &pr.TokenHash, &pr.ExpiresAt, &pr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return pr, nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM password_resets WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
