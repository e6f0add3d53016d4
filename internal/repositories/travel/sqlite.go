package travel

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tripdocs/tripdocs/internal/common"
	"github.com/tripdocs/tripdocs/internal/dbx"
	"github.com/tripdocs/tripdocs/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Destination-specific fields are stored as a JSON object in one column,
// since the field set differs per destination.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func marshalFields(fields map[string]string) (string, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to marshal travel fields: %w", err)
	}
	return string(b), nil
}

func scanTravelInfo(row *sql.Row) (*models.TravelInfo, error) {
	t := &models.TravelInfo{}
	var raw string
	err := row.Scan(&t.ID, &t.UserID, &t.Destination, &raw, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan travel info: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &t.Fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal travel fields: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) GetByUserAndDestination(ctx context.Context, userID, destination string) (*models.TravelInfo, error) {
	query := `SELECT id, user_id, destination, fields, created_at, updated_at
		FROM travel_info WHERE user_id = ? AND destination = ?`
	return scanTravelInfo(r.db.QueryRowContext(ctx, query, userID, destination))
}

func (r *SQLiteRepository) GetAllByUserID(ctx context.Context, userID string) ([]models.TravelInfo, error) {
	query := `SELECT id, user_id, destination, fields, created_at, updated_at
		FROM travel_info WHERE user_id = ? ORDER BY destination ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select travel info: %w", err)
	}
	defer rows.Close()

	var result []models.TravelInfo
	for rows.Next() {
		var t models.TravelInfo
		var raw string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Destination, &raw, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &t.Fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal travel fields: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save upserts by (user_id, destination).
func (r *SQLiteRepository) Save(ctx context.Context, t *models.TravelInfo) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	raw, err := marshalFields(t.Fields)
	if err != nil {
		return "", err
	}

	query := `INSERT INTO travel_info (id, user_id, destination, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, destination) DO UPDATE SET
			fields = excluded.fields,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Destination, raw, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to upsert travel info: %w", err)
	}

	existing, err := r.GetByUserAndDestination(ctx, t.UserID, t.Destination)
	if err != nil {
		return "", err
	}
	if existing != nil {
		t.ID = existing.ID
	}
	return t.ID, nil
}

// Update reads the current field map, merges the patch over it, and writes
// the result back. Unspecified fields are untouched.
func (r *SQLiteRepository) Update(ctx context.Context, userID, destination string, patch models.TravelInfoPatch) (*models.TravelInfo, error) {
	current, err := r.GetByUserAndDestination(ctx, userID, destination)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: travel info for %s/%s", common.ErrorNotFound, userID, destination)
	}
	if len(patch) == 0 {
		return current, nil
	}

	if current.Fields == nil {
		current.Fields = map[string]string{}
	}
	for field, value := range patch {
		current.Fields[field] = value
	}
	current.UpdatedAt = time.Now().UTC()

	raw, err := marshalFields(current.Fields)
	if err != nil {
		return nil, err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE travel_info SET fields = ?, updated_at = ? WHERE id = ?`,
		raw, current.UpdatedAt, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update travel info: %w", err)
	}
	return current, nil
}
