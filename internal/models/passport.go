package models

import (
	"fmt"
	"time"

	"github.com/tripdocs/tripdocs/internal/common"
)

// DateLayout is the wire format for date-valued form fields.
const DateLayout = "2006-01-02"

// Passport is the identity document record for one user. The common case is
// one primary passport per user; when several rows exist the oldest one is
// treated as primary.
//
// Date fields are kept as "YYYY-MM-DD" strings: they arrive from form input
// and from heuristic document scanning, both of which produce text.
type Passport struct {
	ID             string
	UserID         string
	PassportNumber string
	FullName       string
	Surname        string
	GivenNames     string
	Nationality    string
	DateOfBirth    string
	ExpiryDate     string
	Sex            string
	VisaNumber     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// passportFields is the schema for passport form fields and patches.
var passportFields = map[string]struct{}{
	"passportNumber": {},
	"fullName":       {},
	"surname":        {},
	"givenNames":     {},
	"nationality":    {},
	"dateOfBirth":    {},
	"expiryDate":     {},
	"sex":            {},
	"visaNumber":     {},
}

// Validate performs cross-field validation for a full passport save.
// Partial/progressive entry should bypass it via SaveOptions.SkipValidation.
func (p *Passport) Validate() error {
	if p.PassportNumber == "" {
		return fmt.Errorf("%w: passport number is required", common.ErrorValidation)
	}
	dob, err := parseOptionalDate(p.DateOfBirth)
	if err != nil {
		return fmt.Errorf("%w: date of birth: %v", common.ErrorValidation, err)
	}
	exp, err := parseOptionalDate(p.ExpiryDate)
	if err != nil {
		return fmt.Errorf("%w: expiry date: %v", common.ErrorValidation, err)
	}
	if !dob.IsZero() && !exp.IsZero() && !exp.After(dob) {
		return fmt.Errorf("%w: expiry date must be after date of birth", common.ErrorValidation)
	}
	return nil
}

// PassportPatch is a partial update; keys must be known passport fields.
type PassportPatch map[string]string

func (p PassportPatch) Validate() error {
	for field := range p {
		if _, ok := passportFields[field]; !ok {
			return fmt.Errorf("%w: passport field %q", common.ErrorUnknownField, field)
		}
	}
	return nil
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}
