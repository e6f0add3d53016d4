// Package passports persists Passport rows.
package passports

import (
	"context"

	"github.com/tripdocs/tripdocs/internal/models"
)

// Repository describes load/save/update operations for Passport rows.
// Absent data is a valid result: lookups return (nil, nil) when the user
// has never saved a passport.
type Repository interface {
	// GetByID returns a passport by its identifier.
	GetByID(ctx context.Context, id string) (*models.Passport, error)

	// GetPrimaryByUserID returns the user's primary passport: the oldest
	// row when more than one is stored.
	GetPrimaryByUserID(ctx context.Context, userID string) (*models.Passport, error)

	// Save upserts a full passport row, assigning an id and timestamps when
	// missing, and returns the id.
	Save(ctx context.Context, p *models.Passport) (string, error)

	// Update applies a partial patch to the row with the given id, leaving
	// unspecified columns untouched, and returns the updated row.
	Update(ctx context.Context, id string, patch models.PassportPatch) (*models.Passport, error)
}
