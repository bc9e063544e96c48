package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/portersclub/members-api/internal/database"
	"github.com/portersclub/members-api/internal/models"
)

// Column lists are shared between the active and trash tables; the trash
// table carries one extra "deletedAt" column.
const (
	memberColumns = `id, "fullName", age, dob, residence, "gpsAddress", "phoneNumber", "altPhoneNumber", nationality, "maritalStatus", "joiningDate", avatar, "createdAt", "updatedAt"`
	trashColumns  = memberColumns + `, "deletedAt"`
)

type MemberRepository struct {
	db *database.DB
}

func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// rowScanner interface for scanning member rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanMemberRow handles nullable fields and populates a Member model from an
// active-table row
func scanMemberRow(scanner rowScanner) (*models.Member, error) {
	var member models.Member
	var gpsAddress, altPhone, nationality, maritalStatus, avatar *string

	err := scanner.Scan(
		&member.ID, &member.FullName, &member.Age, &member.DOB,
		&member.Residence, &gpsAddress, &member.PhoneNumber, &altPhone,
		&nationality, &maritalStatus, &member.JoiningDate, &avatar,
		&member.CreatedAt, &member.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if gpsAddress != nil {
		member.GPSAddress = *gpsAddress
	}
	if altPhone != nil {
		member.AltPhoneNumber = *altPhone
	}
	if nationality != nil {
		member.Nationality = *nationality
	}
	if maritalStatus != nil {
		member.MaritalStatus = *maritalStatus
	}
	if avatar != nil {
		member.Avatar = *avatar
	}

	return &member, nil
}

// scanTrashMemberRow scans a trash-table row, which additionally carries the
// deletion timestamp
func scanTrashMemberRow(scanner rowScanner) (*models.Member, error) {
	var member models.Member
	var gpsAddress, altPhone, nationality, maritalStatus, avatar *string

	err := scanner.Scan(
		&member.ID, &member.FullName, &member.Age, &member.DOB,
		&member.Residence, &gpsAddress, &member.PhoneNumber, &altPhone,
		&nationality, &maritalStatus, &member.JoiningDate, &avatar,
		&member.CreatedAt, &member.UpdatedAt, &member.DeletedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if gpsAddress != nil {
		member.GPSAddress = *gpsAddress
	}
	if altPhone != nil {
		member.AltPhoneNumber = *altPhone
	}
	if nationality != nil {
		member.Nationality = *nationality
	}
	if maritalStatus != nil {
		member.MaritalStatus = *maritalStatus
	}
	if avatar != nil {
		member.Avatar = *avatar
	}

	return &member, nil
}

func scanMemberRows(rows pgx.Rows, trash bool) ([]*models.Member, error) {
	defer rows.Close()

	members := make([]*models.Member, 0)

	for rows.Next() {
		var member *models.Member
		var err error
		if trash {
			member, err = scanTrashMemberRow(rows)
		} else {
			member, err = scanMemberRow(rows)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return members, nil
}

// List returns members from the active or trash table per filter.Trash. An
// empty result is a valid outcome, not an error.
func (r *MemberRepository) List(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error) {
	table := "members"
	columns := memberColumns
	orderBy := `"createdAt" DESC`
	if filter.Trash {
		table = "trash_members"
		columns = trashColumns
		orderBy = `"deletedAt" DESC`
	}

	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(`("fullName" ILIKE $%d OR "phoneNumber" ILIKE $%d OR residence ILIKE $%d)`, n, n, n))
	}
	if filter.MaritalStatus != "" {
		args = append(args, filter.MaritalStatus)
		conditions = append(conditions, fmt.Sprintf(`LOWER("maritalStatus") = LOWER($%d)`, len(args)))
	}
	if filter.MinAge != nil {
		args = append(args, *filter.MinAge)
		conditions = append(conditions, fmt.Sprintf(`age >= $%d`, len(args)))
	}
	if filter.MaxAge != nil {
		args = append(args, *filter.MaxAge)
		conditions = append(conditions, fmt.Sprintf(`age <= $%d`, len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM %s", columns, table)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + orderBy

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}

	return scanMemberRows(rows, filter.Trash)
}

// GetByID looks up an active member.
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM members WHERE id = $1`, memberColumns)

	return scanMemberRow(r.db.Pool.QueryRow(ctx, query, id))
}

// GetTrashByID looks up a soft-deleted member.
func (r *MemberRepository) GetTrashByID(ctx context.Context, id int64) (*models.Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM trash_members WHERE id = $1`, trashColumns)

	return scanTrashMemberRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *MemberRepository) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	query := fmt.Sprintf(`
		INSERT INTO members ("fullName", age, dob, residence, "gpsAddress", "phoneNumber", "altPhoneNumber", nationality, "maritalStatus", "joiningDate", avatar, "createdAt", "updatedAt")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING %s
	`, memberColumns)

	created, err := scanMemberRow(r.db.Pool.QueryRow(ctx, query,
		member.FullName, member.Age, member.DOB, member.Residence,
		nullable(member.GPSAddress), member.PhoneNumber, nullable(member.AltPhoneNumber),
		nullable(member.Nationality), nullable(member.MaritalStatus), member.JoiningDate,
		nullable(member.Avatar),
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Update is a full-row replace of the named fields. Returns ErrNotFound when
// no active row matches.
func (r *MemberRepository) Update(ctx context.Context, id int64, member *models.Member) (*models.Member, error) {
	query := fmt.Sprintf(`
		UPDATE members SET
			"fullName" = $1, age = $2, dob = $3, residence = $4, "gpsAddress" = $5, "phoneNumber" = $6,
			"altPhoneNumber" = $7, nationality = $8, "maritalStatus" = $9, "joiningDate" = $10, avatar = $11,
			"updatedAt" = NOW()
		WHERE id = $12
		RETURNING %s
	`, memberColumns)

	updated, err := scanMemberRow(r.db.Pool.QueryRow(ctx, query,
		member.FullName, member.Age, member.DOB, member.Residence,
		nullable(member.GPSAddress), member.PhoneNumber, nullable(member.AltPhoneNumber),
		nullable(member.Nationality), nullable(member.MaritalStatus), member.JoiningDate,
		nullable(member.Avatar), id,
	))
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// SoftDelete moves an active member into the trash table in one transaction.
// The trash insert is an upsert so a stale trash row with the same id is
// overwritten; the active row is only removed once the insert succeeded.
func (r *MemberRepository) SoftDelete(ctx context.Context, id int64) error {
	member, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		insertQuery := `
			INSERT INTO trash_members (id, "fullName", age, dob, residence, "gpsAddress", "phoneNumber", "altPhoneNumber", nationality, "maritalStatus", "joiningDate", avatar, "createdAt", "updatedAt", "deletedAt")
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
			ON CONFLICT (id) DO UPDATE SET
				"fullName" = EXCLUDED."fullName",
				age = EXCLUDED.age,
				dob = EXCLUDED.dob,
				residence = EXCLUDED.residence,
				"gpsAddress" = EXCLUDED."gpsAddress",
				"phoneNumber" = EXCLUDED."phoneNumber",
				"altPhoneNumber" = EXCLUDED."altPhoneNumber",
				nationality = EXCLUDED.nationality,
				"maritalStatus" = EXCLUDED."maritalStatus",
				"joiningDate" = EXCLUDED."joiningDate",
				avatar = EXCLUDED.avatar,
				"createdAt" = EXCLUDED."createdAt",
				"updatedAt" = EXCLUDED."updatedAt",
				"deletedAt" = NOW()
		`
		if _, err := tx.Exec(ctx, insertQuery,
			member.ID, member.FullName, member.Age, member.DOB, member.Residence,
			nullable(member.GPSAddress), member.PhoneNumber, nullable(member.AltPhoneNumber),
			nullable(member.Nationality), nullable(member.MaritalStatus), member.JoiningDate,
			nullable(member.Avatar), member.CreatedAt, member.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert into trash: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM members WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete active member: %w", err)
		}

		return nil
	})
}

// Restore moves a trash member back into the active table in one
// transaction. If an active row with the same id already exists it is
// replaced: the trash version wins.
func (r *MemberRepository) Restore(ctx context.Context, id int64) error {
	member, err := r.GetTrashByID(ctx, id)
	if err != nil {
		return err
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM members WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear existing active member: %w", err)
		}

		insertQuery := `
			INSERT INTO members (id, "fullName", age, dob, residence, "gpsAddress", "phoneNumber", "altPhoneNumber", nationality, "maritalStatus", "joiningDate", avatar, "createdAt", "updatedAt")
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		if _, err := tx.Exec(ctx, insertQuery,
			member.ID, member.FullName, member.Age, member.DOB, member.Residence,
			nullable(member.GPSAddress), member.PhoneNumber, nullable(member.AltPhoneNumber),
			nullable(member.Nationality), nullable(member.MaritalStatus), member.JoiningDate,
			nullable(member.Avatar), member.CreatedAt, member.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to restore member: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM trash_members WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete trash member: %w", err)
		}

		return nil
	})
}

// PermanentDelete removes a trash row outright. Irreversible.
func (r *MemberRepository) PermanentDelete(ctx context.Context, id int64) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM trash_members WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Stats aggregates the active table in a single query. NULL ages fall out of
// both age buckets; marital comparisons ignore case.
func (r *MemberRepository) Stats(ctx context.Context) (*models.MemberStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN age <= 18 THEN 1 ELSE 0 END), 0) AS kids,
			COALESCE(SUM(CASE WHEN age > 18 THEN 1 ELSE 0 END), 0) AS adults,
			COALESCE(SUM(CASE WHEN LOWER("maritalStatus") = 'single' THEN 1 ELSE 0 END), 0) AS singles,
			COALESCE(SUM(CASE WHEN LOWER("maritalStatus") = 'married' THEN 1 ELSE 0 END), 0) AS married,
			COALESCE(SUM(CASE WHEN LOWER("maritalStatus") = 'widowed' THEN 1 ELSE 0 END), 0) AS widows
		FROM members
	`

	var stats models.MemberStats
	err := r.db.Pool.QueryRow(ctx, query).Scan(
		&stats.Total, &stats.Kids, &stats.Adults,
		&stats.Singles, &stats.Married, &stats.Widows,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &stats, nil
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
