// Package userdata is the data-access facade consumed by screens. It
// composes the TTL cache, the store adapter, the interaction trackers, and
// the debounced save pipeline behind one API.
package userdata

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tripdocs/tripdocs/internal/cache"
	"github.com/tripdocs/tripdocs/internal/common"
	"github.com/tripdocs/tripdocs/internal/logging"
	"github.com/tripdocs/tripdocs/internal/models"
	"github.com/tripdocs/tripdocs/internal/tracker"
)

// Store is the durable-storage surface the facade needs. *store.Adapter
// satisfies it; tests substitute counting or failing implementations.
type Store interface {
	LoadPassport(ctx context.Context, userID string) (*models.Passport, error)
	LoadPassportByID(ctx context.Context, id string) (*models.Passport, error)
	SavePassport(ctx context.Context, p *models.Passport) (string, error)
	UpdatePassport(ctx context.Context, id string, patch models.PassportPatch) (*models.Passport, error)

	LoadPersonalInfo(ctx context.Context, userID string) (*models.PersonalInfo, error)
	LoadPersonalInfoByID(ctx context.Context, id string) (*models.PersonalInfo, error)
	SavePersonalInfo(ctx context.Context, p *models.PersonalInfo) (string, error)
	UpdatePersonalInfo(ctx context.Context, id string, patch models.PersonalInfoPatch) (*models.PersonalInfo, error)

	LoadFundItems(ctx context.Context, userID string) ([]models.FundItem, error)
	ReplaceFundItems(ctx context.Context, userID string, items []models.FundItem) error

	LoadTravelInfo(ctx context.Context, userID, destination string) (*models.TravelInfo, error)
	LoadAllTravelInfo(ctx context.Context, userID string) ([]models.TravelInfo, error)
	SaveTravelInfo(ctx context.Context, t *models.TravelInfo) (string, error)
	UpdateTravelInfo(ctx context.Context, userID, destination string, patch models.TravelInfoPatch) (*models.TravelInfo, error)

	BatchLoad(ctx context.Context, userID string) (*models.UserData, error)
}

// SaveOptions tune a single save/update call.
type SaveOptions struct {
	// SkipValidation bypasses cross-field validation, for progressive entry
	// where the record is legitimately incomplete.
	SkipValidation bool
}

// LoadOptions tune GetAllUserData.
type LoadOptions struct {
	// UseBatchLoad loads all entity types in one storage round trip instead
	// of one load per type. Both paths return identical data and populate
	// the cache identically.
	UseBatchLoad bool
}

// Service is the facade. Reads go through the TTL cache with concurrent
// misses de-duplicated per key; writes are serialized per entity key and
// invalidate the key's cache entry before the next read can be served.
type Service struct {
	store    Store
	cache    *cache.Cache
	trackers *tracker.Registry
	log      logging.Logger

	loads singleflight.Group

	mu          sync.Mutex
	keyLocks    map[string]*sync.Mutex
	initialized map[string]struct{}
}

func New(st Store, c *cache.Cache, log logging.Logger) *Service {
	return &Service{
		store:       st,
		cache:       c,
		trackers:    tracker.NewRegistry(),
		log:         log.With("component", "userdata"),
		keyLocks:    make(map[string]*sync.Mutex),
		initialized: make(map[string]struct{}),
	}
}

// Initialize performs idempotent per-process setup for a user context,
// warming the cache with one batch load. Repeat calls are no-ops.
func (s *Service) Initialize(ctx context.Context, userID string) error {
	s.mu.Lock()
	if _, ok := s.initialized[userID]; ok {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if _, err := s.GetAllUserData(ctx, userID, LoadOptions{UseBatchLoad: true}); err != nil {
		return err
	}

	s.mu.Lock()
	s.initialized[userID] = struct{}{}
	s.mu.Unlock()
	return nil
}

// TrackerFor returns the interaction tracker for a screen/session
// namespace, creating it on first use.
func (s *Service) TrackerFor(namespace string) *tracker.Tracker {
	return s.trackers.Tracker(namespace)
}

// InvalidateCache drops the user's cache entry for one entity type.
func (s *Service) InvalidateCache(entityType models.EntityType, userID string) error {
	if !entityType.Valid() {
		return fmt.Errorf("%w: %q", common.ErrorUnknownEntity, entityType)
	}
	s.cache.Invalidate(entityType, userID)
	return nil
}

// ClearCache drops every cache entry for every user.
func (s *Service) ClearCache() {
	s.cache.ClearAll()
}

// CacheStats returns a copy of the hit/miss/invalidation counters.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ResetCacheStats zeroes the counters. Primarily for tests and diagnostics.
func (s *Service) ResetCacheStats() {
	s.cache.ResetStats()
}

// lockKey serializes writes per entity key. The returned func releases the
// lock.
func (s *Service) lockKey(key string) func() {
	s.mu.Lock()
	l, ok := s.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.keyLocks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// storeErr classifies an error coming back from the store: domain sentinels
// pass through, anything else is a StoreUnavailable condition.
func (s *Service) storeErr(ctx context.Context, op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) ||
		errors.Is(err, common.ErrorUnknownField) ||
		errors.Is(err, common.ErrorValidation) {
		return err
	}
	s.log.Error(ctx, "store operation failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %v", common.ErrorStoreUnavailable, op, err)
}
