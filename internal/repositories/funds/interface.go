// Package funds persists FundItem rows. Fund items are a list entity:
// the set is replaced wholesale, never merged field by field.
package funds

import (
	"context"

	"github.com/tripdocs/tripdocs/internal/models"
)

type Repository interface {
	// GetAllByUserID returns the user's fund items, oldest first. An empty
	// slice is a valid result.
	GetAllByUserID(ctx context.Context, userID string) ([]models.FundItem, error)

	// ReplaceAll swaps the user's fund item set for items. Callers that
	// need atomicity must bind the repository to a transaction (dbx.WithTx).
	ReplaceAll(ctx context.Context, userID string, items []models.FundItem) error
}
