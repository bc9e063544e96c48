package repositories

import (
	"context"

	"github.com/portersclub/members-api/internal/database"
	"github.com/portersclub/members-api/internal/models"
)

const adminColumns = `id, username, password, email, role, "createdAt", "updatedAt"`

type AdminRepository struct {
	db *database.DB
}

func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func scanAdminRow(scanner rowScanner) (*models.Admin, error) {
	var admin models.Admin
	var email *string

	err := scanner.Scan(
		&admin.ID, &admin.Username, &admin.PasswordHash, &email,
		&admin.Role, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if email != nil {
		admin.Email = *email
	}

	return &admin, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	return scanAdminRow(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByUsername matches usernames case-insensitively.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE LOWER(username) = LOWER($1)`

	return scanAdminRow(r.db.Pool.QueryRow(ctx, query, username))
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	if admin.Role == "" {
		admin.Role = "admin"
	}

	query := `
		INSERT INTO admins (username, password, email, role, "createdAt", "updatedAt")
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + adminColumns

	return scanAdminRow(r.db.Pool.QueryRow(ctx, query,
		admin.Username, admin.PasswordHash, nullable(admin.Email), admin.Role,
	))
}

// UpdatePassword persists a new password hash. This is the only mutation an
// admin record supports after creation.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE admins SET password = $1, "updatedAt" = NOW() WHERE id = $2`

	result, err := r.db.Pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
