package models

// UserData aggregates everything stored for one user. Absent entities are
// nil/empty: never having saved an entity is a valid state, not an error.
type UserData struct {
	Passport     *Passport
	PersonalInfo *PersonalInfo
	FundItems    []FundItem
	TravelInfo   []TravelInfo
}
