package userdata

import (
	"context"
	"fmt"

	"github.com/tripdocs/tripdocs/internal/cache"
	"github.com/tripdocs/tripdocs/internal/common"
	"github.com/tripdocs/tripdocs/internal/models"
)

// SavePassport persists a full passport record for the user and returns its
// id. On success the user's passport cache entry is invalidated so the next
// read observes the write; on failure the cache keeps its last-known-good
// value.
func (s *Service) SavePassport(ctx context.Context, userID string, p *models.Passport, opts SaveOptions) (string, error) {
	p.UserID = userID
	if !opts.SkipValidation {
		if err := p.Validate(); err != nil {
			return "", err
		}
	}

	unlock := s.lockKey(string(cache.NewKey(models.EntityPassport, userID, "")))
	defer unlock()

	id, err := s.store.SavePassport(ctx, p)
	if err != nil {
		return "", s.storeErr(ctx, "save passport", err)
	}
	s.cache.Invalidate(models.EntityPassport, userID)
	return id, nil
}

// UpdatePassport applies a partial patch to the passport row. Unspecified
// fields keep their stored values. Unless SkipValidation is set, the patched
// record must still pass cross-field validation before anything is written.
func (s *Service) UpdatePassport(ctx context.Context, id string, patch models.PassportPatch, opts SaveOptions) (*models.Passport, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lockKey("passport-row:" + id)
	defer unlock()

	if !opts.SkipValidation {
		current, err := s.store.LoadPassportByID(ctx, id)
		if err != nil {
			return nil, s.storeErr(ctx, "load passport", err)
		}
		if current == nil {
			return nil, fmt.Errorf("%w: passport %s", common.ErrorNotFound, id)
		}
		candidate := *current
		applyPassportPatch(&candidate, patch)
		if err := candidate.Validate(); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.UpdatePassport(ctx, id, patch)
	if err != nil {
		return nil, s.storeErr(ctx, "update passport", err)
	}
	s.cache.Invalidate(models.EntityPassport, updated.UserID)
	return updated, nil
}

// SavePersonalInfo upserts the user's single personal-info row.
func (s *Service) SavePersonalInfo(ctx context.Context, userID string, p *models.PersonalInfo, opts SaveOptions) (string, error) {
	p.UserID = userID
	if !opts.SkipValidation {
		if err := p.Validate(); err != nil {
			return "", err
		}
	}

	unlock := s.lockKey(string(cache.NewKey(models.EntityPersonalInfo, userID, "")))
	defer unlock()

	id, err := s.store.SavePersonalInfo(ctx, p)
	if err != nil {
		return "", s.storeErr(ctx, "save personal info", err)
	}
	s.cache.Invalidate(models.EntityPersonalInfo, userID)
	return id, nil
}

// UpdatePersonalInfo applies a partial patch to the personal-info row.
func (s *Service) UpdatePersonalInfo(ctx context.Context, id string, patch models.PersonalInfoPatch, opts SaveOptions) (*models.PersonalInfo, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lockKey("personal-row:" + id)
	defer unlock()

	if !opts.SkipValidation {
		current, err := s.store.LoadPersonalInfoByID(ctx, id)
		if err != nil {
			return nil, s.storeErr(ctx, "load personal info", err)
		}
		if current == nil {
			return nil, fmt.Errorf("%w: personal info %s", common.ErrorNotFound, id)
		}
		candidate := *current
		applyPersonalInfoPatch(&candidate, patch)
		if err := candidate.Validate(); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.UpdatePersonalInfo(ctx, id, patch)
	if err != nil {
		return nil, s.storeErr(ctx, "update personal info", err)
	}
	s.cache.Invalidate(models.EntityPersonalInfo, updated.UserID)
	return updated, nil
}

// SaveFundItems replaces the user's fund item set atomically. Fund items are
// a list entity: there is no per-field merge, the new set wins whole.
func (s *Service) SaveFundItems(ctx context.Context, userID string, items []models.FundItem, opts SaveOptions) error {
	if !opts.SkipValidation {
		for i := range items {
			if err := items[i].Validate(); err != nil {
				return err
			}
		}
	}

	unlock := s.lockKey(string(cache.NewKey(models.EntityFundItems, userID, "")))
	defer unlock()

	if err := s.store.ReplaceFundItems(ctx, userID, items); err != nil {
		return s.storeErr(ctx, "replace fund items", err)
	}
	s.cache.Invalidate(models.EntityFundItems, userID)
	return nil
}

// SaveTravelInfo upserts the record for one (user, destination) pair.
func (s *Service) SaveTravelInfo(ctx context.Context, t *models.TravelInfo) (string, error) {
	if t.UserID == "" || t.Destination == "" {
		return "", fmt.Errorf("%w: travel info requires user id and destination", common.ErrorValidation)
	}
	if err := models.TravelInfoPatch(t.Fields).Validate(); err != nil {
		return "", err
	}

	unlock := s.lockKey(string(cache.NewKey(models.EntityTravelInfo, t.UserID, t.Destination)))
	defer unlock()

	id, err := s.store.SaveTravelInfo(ctx, t)
	if err != nil {
		return "", s.storeErr(ctx, "save travel info", err)
	}
	s.cache.Invalidate(models.EntityTravelInfo, t.UserID)
	return id, nil
}

// UpdateTravelInfo merges the patch into the destination's field map,
// leaving fields outside the patch untouched.
func (s *Service) UpdateTravelInfo(ctx context.Context, userID, destination string, patch models.TravelInfoPatch) (*models.TravelInfo, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lockKey(string(cache.NewKey(models.EntityTravelInfo, userID, destination)))
	defer unlock()

	updated, err := s.store.UpdateTravelInfo(ctx, userID, destination, patch)
	if err != nil {
		return nil, s.storeErr(ctx, "update travel info", err)
	}
	s.cache.Invalidate(models.EntityTravelInfo, userID)
	return updated, nil
}

func applyPassportPatch(p *models.Passport, patch models.PassportPatch) {
	for field, value := range patch {
		switch field {
		case "passportNumber":
			p.PassportNumber = value
		case "fullName":
			p.FullName = value
		case "surname":
			p.Surname = value
		case "givenNames":
			p.GivenNames = value
		case "nationality":
			p.Nationality = value
		case "dateOfBirth":
			p.DateOfBirth = value
		case "expiryDate":
			p.ExpiryDate = value
		case "sex":
			p.Sex = value
		case "visaNumber":
			p.VisaNumber = value
		}
	}
}

func applyPersonalInfoPatch(p *models.PersonalInfo, patch models.PersonalInfoPatch) {
	for field, value := range patch {
		switch field {
		case "occupation":
			p.Occupation = value
		case "cityOfResidence":
			p.CityOfResidence = value
		case "countryOfResidence":
			p.CountryOfResidence = value
		case "phoneCode":
			p.PhoneCode = value
		case "phoneNumber":
			p.PhoneNumber = value
		case "email":
			p.Email = value
		}
	}
}
