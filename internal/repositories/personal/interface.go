// Package personal persists PersonalInfo rows, one per user.
package personal

import (
	"context"

	"github.com/tripdocs/tripdocs/internal/models"
)

// Repository describes load/save/update operations for PersonalInfo rows.
// Lookups return (nil, nil) when the user has never saved personal info.
type Repository interface {
	GetByID(ctx context.Context, id string) (*models.PersonalInfo, error)
	GetByUserID(ctx context.Context, userID string) (*models.PersonalInfo, error)

	// Save upserts the user's single personal-info row and returns its id.
	Save(ctx context.Context, p *models.PersonalInfo) (string, error)

	// Update applies a partial patch by row id, leaving unspecified columns
	// untouched, and returns the updated row.
	Update(ctx context.Context, id string, patch models.PersonalInfoPatch) (*models.PersonalInfo, error)
}
