package models

import (
	"fmt"
	"time"

	"github.com/tripdocs/tripdocs/internal/common"
)

// TravelInfo is one record per (user, destination) pair. The same user has
// independent travel records for each country they are preparing for. The
// field set varies per destination (e.g. K-ETA fields for one country, ESTA
// fields for another), so destination-specific values live in the Fields
// map rather than fixed columns.
type TravelInfo struct {
	ID          string
	UserID      string
	Destination string
	Fields      map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// travelReservedFields are identity fields that must never be patched
// through the free-form fields map.
var travelReservedFields = map[string]struct{}{
	"id":          {},
	"userId":      {},
	"destination": {},
	"createdAt":   {},
	"updatedAt":   {},
}

// TravelInfoPatch is a partial update to a destination's field map. Any
// field name is allowed except the reserved identity fields.
type TravelInfoPatch map[string]string

func (p TravelInfoPatch) Validate() error {
	for field := range p {
		if _, ok := travelReservedFields[field]; ok {
			return fmt.Errorf("%w: travel info field %q is reserved", common.ErrorUnknownField, field)
		}
	}
	return nil
}
