package models

import "time"

// SerializablePassport is a plain, flat passport shape safe to pass across
// navigation/state boundaries. Timestamps are rendered as RFC 3339 strings.
type SerializablePassport struct {
	ID             string `json:"id,omitempty"`
	UserID         string `json:"userId,omitempty"`
	PassportNumber string `json:"passportNumber,omitempty"`
	FullName       string `json:"fullName,omitempty"`
	Surname        string `json:"surname,omitempty"`
	GivenNames     string `json:"givenNames,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	ExpiryDate     string `json:"expiryDate,omitempty"`
	Sex            string `json:"sex,omitempty"`
	VisaNumber     string `json:"visaNumber,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	UpdatedAt      string `json:"updatedAt,omitempty"`
}

// ToSerializablePassport normalizes an in-memory passport into a plain
// serializable shape. A nil input yields a nil output.
func ToSerializablePassport(p *Passport) *SerializablePassport {
	if p == nil {
		return nil
	}
	return &SerializablePassport{
		ID:             p.ID,
		UserID:         p.UserID,
		PassportNumber: p.PassportNumber,
		FullName:       p.FullName,
		Surname:        p.Surname,
		GivenNames:     p.GivenNames,
		Nationality:    p.Nationality,
		DateOfBirth:    p.DateOfBirth,
		ExpiryDate:     p.ExpiryDate,
		Sex:            p.Sex,
		VisaNumber:     p.VisaNumber,
		CreatedAt:      formatTimestamp(p.CreatedAt),
		UpdatedAt:      formatTimestamp(p.UpdatedAt),
	}
}

// SerializablePersonalInfo is the flat JSON shape for personal info.
type SerializablePersonalInfo struct {
	ID                 string `json:"id,omitempty"`
	UserID             string `json:"userId,omitempty"`
	Occupation         string `json:"occupation,omitempty"`
	CityOfResidence    string `json:"cityOfResidence,omitempty"`
	CountryOfResidence string `json:"countryOfResidence,omitempty"`
	PhoneCode          string `json:"phoneCode,omitempty"`
	PhoneNumber        string `json:"phoneNumber,omitempty"`
	Email              string `json:"email,omitempty"`
	CreatedAt          string `json:"createdAt,omitempty"`
	UpdatedAt          string `json:"updatedAt,omitempty"`
}

func ToSerializablePersonalInfo(p *PersonalInfo) *SerializablePersonalInfo {
	if p == nil {
		return nil
	}
	return &SerializablePersonalInfo{
		ID:                 p.ID,
		UserID:             p.UserID,
		Occupation:         p.Occupation,
		CityOfResidence:    p.CityOfResidence,
		CountryOfResidence: p.CountryOfResidence,
		PhoneCode:          p.PhoneCode,
		PhoneNumber:        p.PhoneNumber,
		Email:              p.Email,
		CreatedAt:          formatTimestamp(p.CreatedAt),
		UpdatedAt:          formatTimestamp(p.UpdatedAt),
	}
}

// SerializableFundItem is the flat JSON shape for one fund item. Amount
// stays in minor currency units.
type SerializableFundItem struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"userId,omitempty"`
	FundType  string `json:"fundType,omitempty"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func ToSerializableFundItems(items []FundItem) []SerializableFundItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]SerializableFundItem, 0, len(items))
	for i := range items {
		f := &items[i]
		out = append(out, SerializableFundItem{
			ID:        f.ID,
			UserID:    f.UserID,
			FundType:  f.FundType,
			Amount:    f.Amount,
			Currency:  f.Currency,
			CreatedAt: formatTimestamp(f.CreatedAt),
		})
	}
	return out
}

// SerializableTravelInfo is the flat JSON shape for one destination record.
type SerializableTravelInfo struct {
	ID          string            `json:"id,omitempty"`
	UserID      string            `json:"userId,omitempty"`
	Destination string            `json:"destination,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
}

func ToSerializableTravelInfo(t *TravelInfo) *SerializableTravelInfo {
	if t == nil {
		return nil
	}
	return &SerializableTravelInfo{
		ID:          t.ID,
		UserID:      t.UserID,
		Destination: t.Destination,
		Fields:      t.Fields,
		CreatedAt:   formatTimestamp(t.CreatedAt),
		UpdatedAt:   formatTimestamp(t.UpdatedAt),
	}
}

// SerializableUserData is the JSON export shape for everything stored for
// one user.
type SerializableUserData struct {
	Passport     *SerializablePassport     `json:"passport,omitempty"`
	PersonalInfo *SerializablePersonalInfo `json:"personalInfo,omitempty"`
	FundItems    []SerializableFundItem    `json:"fundItems,omitempty"`
	TravelInfo   []SerializableTravelInfo  `json:"travelInfo,omitempty"`
}

func ToSerializableUserData(d *UserData) *SerializableUserData {
	if d == nil {
		return nil
	}
	out := &SerializableUserData{
		Passport:     ToSerializablePassport(d.Passport),
		PersonalInfo: ToSerializablePersonalInfo(d.PersonalInfo),
		FundItems:    ToSerializableFundItems(d.FundItems),
	}
	for i := range d.TravelInfo {
		out.TravelInfo = append(out.TravelInfo, *ToSerializableTravelInfo(&d.TravelInfo[i]))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
