package userdata

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tripdocs/tripdocs/internal/cache"
	"github.com/tripdocs/tripdocs/internal/models"
)

// GetPassport returns the user's primary passport, nil if none was ever
// saved. Reads are served from the cache when fresh; concurrent misses for
// the same key collapse into a single storage call.
func (s *Service) GetPassport(ctx context.Context, userID string) (*models.Passport, error) {
	if v, ok := s.cache.Get(models.EntityPassport, userID, ""); ok {
		return v.(*models.Passport), nil
	}
	v, err := s.loadOnce(models.EntityPassport, userID, "", func() (any, error) {
		return s.store.LoadPassport(ctx, userID)
	})
	if err != nil {
		return nil, s.storeErr(ctx, "load passport", err)
	}
	return v.(*models.Passport), nil
}

// GetPersonalInfo returns the user's personal info, nil if never saved.
func (s *Service) GetPersonalInfo(ctx context.Context, userID string) (*models.PersonalInfo, error) {
	if v, ok := s.cache.Get(models.EntityPersonalInfo, userID, ""); ok {
		return v.(*models.PersonalInfo), nil
	}
	v, err := s.loadOnce(models.EntityPersonalInfo, userID, "", func() (any, error) {
		return s.store.LoadPersonalInfo(ctx, userID)
	})
	if err != nil {
		return nil, s.storeErr(ctx, "load personal info", err)
	}
	return v.(*models.PersonalInfo), nil
}

// GetFundItems returns the user's fund items in insertion order. No items
// is a valid state and yields an empty slice.
func (s *Service) GetFundItems(ctx context.Context, userID string) ([]models.FundItem, error) {
	if v, ok := s.cache.Get(models.EntityFundItems, userID, ""); ok {
		return v.([]models.FundItem), nil
	}
	v, err := s.loadOnce(models.EntityFundItems, userID, "", func() (any, error) {
		return s.store.LoadFundItems(ctx, userID)
	})
	if err != nil {
		return nil, s.storeErr(ctx, "load fund items", err)
	}
	return v.([]models.FundItem), nil
}

// GetTravelInfo returns the user's record for one destination, nil if the
// destination was never started. Cached under a destination secondary key.
func (s *Service) GetTravelInfo(ctx context.Context, userID, destination string) (*models.TravelInfo, error) {
	if v, ok := s.cache.Get(models.EntityTravelInfo, userID, destination); ok {
		return v.(*models.TravelInfo), nil
	}
	v, err := s.loadOnce(models.EntityTravelInfo, userID, destination, func() (any, error) {
		return s.store.LoadTravelInfo(ctx, userID, destination)
	})
	if err != nil {
		return nil, s.storeErr(ctx, "load travel info", err)
	}
	return v.(*models.TravelInfo), nil
}

// GetAllTravelInfo returns every destination record for the user.
func (s *Service) GetAllTravelInfo(ctx context.Context, userID string) ([]models.TravelInfo, error) {
	if v, ok := s.cache.Get(models.EntityTravelInfo, userID, ""); ok {
		return v.([]models.TravelInfo), nil
	}
	v, err := s.loadOnce(models.EntityTravelInfo, userID, "", func() (any, error) {
		all, err := s.store.LoadAllTravelInfo(ctx, userID)
		if err != nil {
			return nil, err
		}
		// warm the per-destination variants alongside the full list
		for i := range all {
			t := all[i]
			s.cache.Set(models.EntityTravelInfo, userID, &t, t.Destination)
		}
		return all, nil
	})
	if err != nil {
		return nil, s.storeErr(ctx, "load all travel info", err)
	}
	return v.([]models.TravelInfo), nil
}

// GetAllUserData loads everything stored for the user. With UseBatchLoad it
// is one storage round trip; without it each entity type loads concurrently
// through the normal cached getters. Both paths return identical data and
// leave the cache in the same state.
func (s *Service) GetAllUserData(ctx context.Context, userID string, opts LoadOptions) (*models.UserData, error) {
	if opts.UseBatchLoad {
		data, err := s.store.BatchLoad(ctx, userID)
		if err != nil {
			return nil, s.storeErr(ctx, "batch load", err)
		}
		s.populate(userID, data)
		return data, nil
	}

	data := &models.UserData{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.GetPassport(gctx, userID)
		data.Passport = p
		return err
	})
	g.Go(func() error {
		p, err := s.GetPersonalInfo(gctx, userID)
		data.PersonalInfo = p
		return err
	})
	g.Go(func() error {
		items, err := s.GetFundItems(gctx, userID)
		data.FundItems = items
		return err
	})
	g.Go(func() error {
		all, err := s.GetAllTravelInfo(gctx, userID)
		data.TravelInfo = all
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// RefreshCache force-reloads every entity type for the user, replacing
// whatever the cache holds, fresh or stale.
func (s *Service) RefreshCache(ctx context.Context, userID string) error {
	for _, et := range []models.EntityType{
		models.EntityPassport, models.EntityPersonalInfo,
		models.EntityFundItems, models.EntityTravelInfo,
	} {
		s.cache.Invalidate(et, userID)
	}
	_, err := s.GetAllUserData(ctx, userID, LoadOptions{UseBatchLoad: true})
	return err
}

// loadOnce funnels concurrent misses for one key through a single storage
// call and caches the winner's result. Absent rows cache as typed nils so
// repeat lookups of never-saved entities stay off the store.
func (s *Service) loadOnce(entityType models.EntityType, userID, secondaryKey string, load func() (any, error)) (any, error) {
	key := string(cache.NewKey(entityType, userID, secondaryKey))
	v, err, _ := s.loads.Do(key, func() (any, error) {
		value, err := load()
		if err != nil {
			return nil, err
		}
		s.cache.Set(entityType, userID, value, secondaryKey)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// populate writes one batch-load result into the cache, mirroring what the
// individual getters would have cached entity by entity.
func (s *Service) populate(userID string, data *models.UserData) {
	s.cache.Set(models.EntityPassport, userID, data.Passport, "")
	s.cache.Set(models.EntityPersonalInfo, userID, data.PersonalInfo, "")
	s.cache.Set(models.EntityFundItems, userID, data.FundItems, "")
	s.cache.Set(models.EntityTravelInfo, userID, data.TravelInfo, "")
	for i := range data.TravelInfo {
		t := data.TravelInfo[i]
		s.cache.Set(models.EntityTravelInfo, userID, &t, t.Destination)
	}
}
