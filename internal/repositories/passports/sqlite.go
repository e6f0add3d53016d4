package passports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripdocs/tripdocs/internal/common"
	"github.com/tripdocs/tripdocs/internal/dbx"
	"github.com/tripdocs/tripdocs/internal/models"
)

// columns maps patch field names onto table columns. The map doubles as the
// schema check for partial updates: unknown fields never reach SQL.
var columns = map[string]string{
	"passportNumber": "passport_number",
	"fullName":       "full_name",
	"surname":        "surname",
	"givenNames":     "given_names",
	"nationality":    "nationality",
	"dateOfBirth":    "date_of_birth",
	"expiryDate":     "expiry_date",
	"sex":            "sex",
	"visaNumber":     "visa_number",
}

const selectColumns = `id, user_id, passport_number, full_name, surname, given_names,
	nationality, date_of_birth, expiry_date, sex, visa_number, created_at, updated_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanPassport(row *sql.Row) (*models.Passport, error) {
	p := &models.Passport{}
	err := row.Scan(&p.ID, &p.UserID, &p.PassportNumber, &p.FullName, &p.Surname, &p.GivenNames,
		&p.Nationality, &p.DateOfBirth, &p.ExpiryDate, &p.Sex, &p.VisaNumber, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan passport: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Passport, error) {
	query := `SELECT ` + selectColumns + ` FROM passports WHERE id = ?`
	return scanPassport(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) GetPrimaryByUserID(ctx context.Context, userID string) (*models.Passport, error) {
	query := `SELECT ` + selectColumns + ` FROM passports WHERE user_id = ? ORDER BY created_at ASC LIMIT 1`
	return scanPassport(r.db.QueryRowContext(ctx, query, userID))
}

// Save upserts a passport by id. On conflict, every field column is updated.
func (r *SQLiteRepository) Save(ctx context.Context, p *models.Passport) (string, error) {
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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

// Update builds a dynamic UPDATE from the patch, touching only the named
// columns plus updated_at.
func (r *SQLiteRepository) Update(ctx context.Context, id string, patch models.PassportPatch) (*models.Passport, error) {
	if len(patch) == 0 {
		return r.GetByID(ctx, id)
	}

	set := make([]string, 0, len(patch)+1)
	args := make([]any, 0, len(patch)+2)
	for field, value := range patch {
		col, ok := columns[field]
		if !ok {
			return nil, fmt.Errorf("%w: passport field %q", common.ErrorUnknownField, field)
		}
		set = append(set, col+" = ?")
		args = append(args, value)
	}
	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := `UPDATE passports SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
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
