package personal

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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.PersonalInfo, error) {
	query := `SELECT ` + selectColumns + ` FROM personal_info WHERE id = $1`
	return scanPersonalInfo(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.PersonalInfo, error) {
	query := `SELECT ` + selectColumns + ` FROM personal_info WHERE user_id = $1`
	return scanPersonalInfo(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) Save(ctx context.Context, p *models.PersonalInfo) (string, error) {
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
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

	existing, err := r.GetByUserID(ctx, p.UserID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		p.ID = existing.ID
	}
	return p.ID, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.PersonalInfoPatch) (*models.PersonalInfo, error) {
	if len(patch) == 0 {
		return r.GetByID(ctx, id)
	}

	set := make([]string, 0, len(patch)+1)
	args := make([]any, 0, len(patch)+2)
	n := 1
	for field, value := range patch {
		col, ok := columns[field]
		if !ok {
			return nil, fmt.Errorf("%w: personal info field %q", common.ErrorUnknownField, field)
		}
		set = append(set, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, value)
		n++
	}
	set = append(set, fmt.Sprintf("updated_at = $%d", n))
	args = append(args, time.Now().UTC(), id)

	query := fmt.Sprintf(`UPDATE personal_info SET %s WHERE id = $%d`, strings.Join(set, ", "), n+1)
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
