package personal

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

var columns = map[string]string{
	"occupation":         "occupation",
	"cityOfResidence":    "city_of_residence",
	"countryOfResidence": "country_of_residence",
	"phoneCode":          "phone_code",
	"phoneNumber":        "phone_number",
	"email":              "email",
}

const selectColumns = `id, user_id, occupation, city_of_residence, country_of_residence,
	phone_code, phone_number, email, created_at, updated_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanPersonalInfo(row *sql.Row) (*models.PersonalInfo, error) {
	p := &models.PersonalInfo{}
	err := row.Scan(&p.ID, &p.UserID, &p.Occupation, &p.CityOfResidence, &p.CountryOfResidence,
		&p.PhoneCode, &p.PhoneNumber, &p.Email, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan personal info: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.PersonalInfo, error) {
	query := `SELECT ` + selectColumns + ` FROM personal_info WHERE id = ?`
	return scanPersonalInfo(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) GetByUserID(ctx context.Context, userID string) (*models.PersonalInfo, error) {
	query := `SELECT ` + selectColumns + ` FROM personal_info WHERE user_id = ?`
	return scanPersonalInfo(r.db.QueryRowContext(ctx, query, userID))
}

// Save upserts by user_id: personal info is one row per user.
func (r *SQLiteRepository) Save(ctx context.Context, p *models.PersonalInfo) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query := `INSERT INTO personal_info (id, user_id, occupation, city_of_residence, country_of_residence,
			phone_code, phone_number, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			occupation = excluded.occupation,
			city_of_residence = excluded.city_of_residence,
			country_of_residence = excluded.country_of_residence,
			phone_code = excluded.phone_code,
			phone_number = excluded.phone_number,
			email = excluded.email,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Occupation, p.CityOfResidence, p.CountryOfResidence,
		p.PhoneCode, p.PhoneNumber, p.Email, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to upsert personal info: %w", err)
	}

	// the upsert may have kept a pre-existing row's id
	existing, err := r.GetByUserID(ctx, p.UserID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		p.ID = existing.ID
	}
	return p.ID, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, patch models.PersonalInfoPatch) (*models.PersonalInfo, error) {
	if len(patch) == 0 {
		return r.GetByID(ctx, id)
	}

	set := make([]string, 0, len(patch)+1)
	args := make([]any, 0, len(patch)+2)
	for field, value := range patch {
		col, ok := columns[field]
		if !ok {
			return nil, fmt.Errorf("%w: personal info field %q", common.ErrorUnknownField, field)
		}
		set = append(set, col+" = ?")
		args = append(args, value)
	}
	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := `UPDATE personal_info SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update personal info: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return nil, fmt.Errorf("%w: personal info %s", common.ErrorNotFound, id)
	}
	return r.GetByID(ctx, id)
}
