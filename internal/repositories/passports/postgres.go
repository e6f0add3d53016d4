package passports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripdocs/tripdocs/internal/common"
	"github.com/tripdocs/tripdocs/internal/dbx"
	"github.com/tripdocs/tripdocs/internal/models"
)

// PostgresRepository implements Repository over pgx's database/sql driver.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Passport, error) {
	query := `SELECT ` + selectColumns + ` FROM passports WHERE id = $1`
	return scanPassport(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetPrimaryByUserID(ctx context.Context, userID string) (*models.Passport, error) {
	query := `SELECT ` + selectColumns + ` FROM passports WHERE user_id = $1 ORDER BY created_at ASC LIMIT 1`
	return scanPassport(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) Save(ctx context.Context, p *models.Passport) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `INSERT INTO passports (id, user_id, passport_number, full_name, surname, given_names,
			nationality, date_of_birth, expiry_date, sex, visa_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT(id) DO UPDATE SET
			passport_number = excluded.passport_number,
			full_name = excluded.full_name,
			surname = excluded.surname,
			given_names = excluded.given_names,
			nationality = excluded.nationality,
			date_of_birth = excluded.date_of_birth,
			expiry_date = excluded.expiry_date,
			sex = excluded.sex,
			visa_number = excluded.visa_number,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.PassportNumber, p.FullName, p.Surname, p.GivenNames,
		p.Nationality, p.DateOfBirth, p.ExpiryDate, p.Sex, p.VisaNumber, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to upsert passport: %w", err)
	}
	return p.ID, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.PassportPatch) (*models.Passport, error) {
	if len(patch) == 0 {
		return r.GetByID(ctx, id)
	}

	set := make([]string, 0, len(patch)+1)
	args := make([]any, 0, len(patch)+2)
	n := 1
	for field, value := range patch {
		col, ok := columns[field]
		if !ok {
			return nil, fmt.Errorf("%w: passport field %q", common.ErrorUnknownField, field)
		}
		set = append(set, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, value)
		n++
	}
	set = append(set, fmt.Sprintf("updated_at = $%d", n))
	args = append(args, time.Now().UTC(), id)

	query := fmt.Sprintf(`UPDATE passports SET %s WHERE id = $%d`, strings.Join(set, ", "), n+1)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update passport: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return nil, fmt.Errorf("%w: passport %s", common.ErrorNotFound, id)
	}
	return r.GetByID(ctx, id)
}
