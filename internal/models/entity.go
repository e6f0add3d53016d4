// Package models defines the entities persisted by the data-access layer
// and the typed patch structures used for partial updates.
package models

// EntityType identifies one of the persisted entity kinds.
type EntityType string

const (
	EntityPassport     EntityType = "passport"
	EntityPersonalInfo EntityType = "personal_info"
	EntityFundItems    EntityType = "fund_items"
	EntityTravelInfo   EntityType = "travel_info"
)

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityPassport, EntityPersonalInfo, EntityFundItems, EntityTravelInfo:
		return true
	}
	return false
}
