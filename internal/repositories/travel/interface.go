// Package travel persists TravelInfo rows, one per (user, destination).
package travel

import (
	"context"

	"github.com/tripdocs/tripdocs/internal/models"
)

// Repository describes load/save/update operations for TravelInfo rows.
// Lookups return (nil, nil) when no record exists for the pair.
type Repository interface {
	GetByUserAndDestination(ctx context.Context, userID, destination string) (*models.TravelInfo, error)

	// GetAllByUserID returns every destination's record for the user.
	GetAllByUserID(ctx context.Context, userID string) ([]models.TravelInfo, error)

	// Save upserts the (user, destination) row and returns its id.
	Save(ctx context.Context, t *models.TravelInfo) (string, error)

	// Update merges patch into the destination's field map, leaving other
	// fields untouched. Callers that need the read-merge-write to be atomic
	// must bind the repository to a transaction (dbx.WithTx).
	Update(ctx context.Context, userID, destination string, patch models.TravelInfoPatch) (*models.TravelInfo, error)
}
