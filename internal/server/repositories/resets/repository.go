package resets

import (
	"context"
	"time"

	"github.com/growthpods/growthpods/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// FindValid returns the reset for tokenHash unless it is missing or expired at now.
	FindValid(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordReset, error)
	DeleteByUser(ctx context.Context, userID string) error
}
