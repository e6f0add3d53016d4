package funds

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tripdocs/tripdocs/internal/dbx"
	"github.com/tripdocs/tripdocs/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAllByUserID(ctx context.Context, userID string) ([]models.FundItem, error) {
	query := `SELECT id, user_id, fund_type, amount, currency, created_at
		FROM fund_items WHERE user_id = ? ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select fund items: %w", err)
	}
	defer rows.Close()

	var result []models.FundItem
	for rows.Next() {
		var item models.FundItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.FundType, &item.Amount, &item.Currency, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ReplaceAll deletes the user's current items and inserts the new set.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, userID string, items []models.FundItem) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM fund_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear fund items: %w", err)
	}

	now := time.Now().UTC()
	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		item.UserID = userID
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO fund_items (id, user_id, fund_type, amount, currency, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			item.ID, item.UserID, item.FundType, item.Amount, item.Currency, item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert fund item: %w", err)
		}
	}
	return nil
}
