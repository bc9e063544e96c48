package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/portersclub/members-api/internal/database"
	"github.com/portersclub/members-api/internal/models"
)

const passwordResetColumns = `id, username, token, "expiresAt", "createdAt"`

type PasswordResetRepository struct {
	db *database.DB
}

func NewPasswordResetRepository(db *database.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func scanPasswordResetRow(scanner rowScanner) (*models.PasswordReset, error) {
	var reset models.PasswordReset

	err := scanner.Scan(
		&reset.ID, &reset.Username, &reset.Token, &reset.ExpiresAt, &reset.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &reset, nil
}

func (r *PasswordResetRepository) Create(ctx context.Context, username, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	query := `
		INSERT INTO password_resets (username, token, "expiresAt", "createdAt")
		VALUES ($1, $2, $3, NOW())
		RETURNING ` + passwordResetColumns

	reset, err := scanPasswordResetRow(r.db.Pool.QueryRow(ctx, query, username, token, expiresAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create password reset: %w", err)
	}

	return reset, nil
}

// GetByToken only returns unexpired tokens; an expired token is
// indistinguishable from a missing one.
func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	query := `SELECT ` + passwordResetColumns + ` FROM password_resets WHERE token = $1 AND "expiresAt" > NOW()`

	return scanPasswordResetRow(r.db.Pool.QueryRow(ctx, query, token))
}

// DeleteByToken consumes a token. Used exactly once per successful reset.
func (r *PasswordResetRepository) DeleteByToken(ctx context.Context, token string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM password_resets WHERE token = $1`, token)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteByUsername invalidates every outstanding token for a username.
func (r *PasswordResetRepository) DeleteByUsername(ctx context.Context, username string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM password_resets WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("failed to delete password resets for user: %w", err)
	}

	return nil
}

// DeleteExpired clears out expired tokens and returns how many were removed.
func (r *PasswordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM password_resets WHERE "expiresAt" <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired password resets: %w", err)
	}

	return result.RowsAffected(), nil
}
