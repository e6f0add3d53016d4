package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/tripdocs/tripdocs/internal/common"
)

// PersonalInfo holds contact and demographic fields. One row per user.
type PersonalInfo struct {
	ID                 string
	UserID             string
	Occupation         string
	CityOfResidence    string
	CountryOfResidence string
	PhoneCode          string
	PhoneNumber        string
	Email              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

var personalInfoFields = map[string]struct{}{
	"occupation":         {},
	"cityOfResidence":    {},
	"countryOfResidence": {},
	"phoneCode":          {},
	"phoneNumber":        {},
	"email":              {},
}

// Validate performs cross-field validation for a full personal-info save.
func (p *PersonalInfo) Validate() error {
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: email %q is not an address", common.ErrorValidation, p.Email)
	}
	if p.PhoneNumber != "" && p.PhoneCode == "" {
		return fmt.Errorf("%w: phone number requires a phone code", common.ErrorValidation)
	}
	return nil
}

// PersonalInfoPatch is a partial update; keys must be known fields.
type PersonalInfoPatch map[string]string

func (p PersonalInfoPatch) Validate() error {
	for field := range p {
		if _, ok := personalInfoFields[field]; !ok {
			return fmt.Errorf("%w: personal info field %q", common.ErrorUnknownField, field)
		}
	}
	return nil
}
