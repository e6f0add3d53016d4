// Package store is the only component that touches durable storage. It
// composes the per-entity repositories and provides the batch-load path.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tripdocs/tripdocs/internal/dbx"
	"github.com/tripdocs/tripdocs/internal/logging"
	"github.com/tripdocs/tripdocs/internal/models"
	"github.com/tripdocs/tripdocs/internal/repositories/funds"
	"github.com/tripdocs/tripdocs/internal/repositories/passports"
	"github.com/tripdocs/tripdocs/internal/repositories/personal"
	"github.com/tripdocs/tripdocs/internal/repositories/travel"
)

// Adapter exposes load/save/update primitives per entity type and a batch
// variant that loads every entity type in one round trip. Repositories are
// constructed per call site so that transactional paths can bind them to a
// *sql.Tx through dbx.DBTX.
type Adapter struct {
	db  *sql.DB
	log logging.Logger

	newPassports func(dbx.DBTX) passports.Repository
	newPersonal  func(dbx.DBTX) personal.Repository
	newFunds     func(dbx.DBTX) funds.Repository
	newTravel    func(dbx.DBTX) travel.Repository

	passports passports.Repository
	personal  personal.Repository
	funds     funds.Repository
	travel    travel.Repository
}

// New returns an Adapter over db for the given driver.
func New(db *sql.DB, driver string, log logging.Logger) (*Adapter, error) {
	a := &Adapter{db: db, log: log.With("component", "store")}
	switch driver {
	case DriverSQLite:
		a.newPassports = func(d dbx.DBTX) passports.Repository { return passports.NewSQLiteRepository(d) }
		a.newPersonal = func(d dbx.DBTX) personal.Repository { return personal.NewSQLiteRepository(d) }
		a.newFunds = func(d dbx.DBTX) funds.Repository { return funds.NewSQLiteRepository(d) }
		a.newTravel = func(d dbx.DBTX) travel.Repository { return travel.NewSQLiteRepository(d) }
	case DriverPostgres:
		a.newPassports = func(d dbx.DBTX) passports.Repository { return passports.NewPostgresRepository(d) }
		a.newPersonal = func(d dbx.DBTX) personal.Repository { return personal.NewPostgresRepository(d) }
		a.newFunds = func(d dbx.DBTX) funds.Repository { return funds.NewPostgresRepository(d) }
		a.newTravel = func(d dbx.DBTX) travel.Repository { return travel.NewPostgresRepository(d) }
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
	a.passports = a.newPassports(db)
	a.personal = a.newPersonal(db)
	a.funds = a.newFunds(db)
	a.travel = a.newTravel(db)
	return a, nil
}

func (a *Adapter) LoadPassport(ctx context.Context, userID string) (*models.Passport, error) {
	return a.passports.GetPrimaryByUserID(ctx, userID)
}

func (a *Adapter) LoadPassportByID(ctx context.Context, id string) (*models.Passport, error) {
	return a.passports.GetByID(ctx, id)
}

func (a *Adapter) SavePassport(ctx context.Context, p *models.Passport) (string, error) {
	return a.passports.Save(ctx, p)
}

func (a *Adapter) UpdatePassport(ctx context.Context, id string, patch models.PassportPatch) (*models.Passport, error) {
	return a.passports.Update(ctx, id, patch)
}

func (a *Adapter) LoadPersonalInfo(ctx context.Context, userID string) (*models.PersonalInfo, error) {
	return a.personal.GetByUserID(ctx, userID)
}

func (a *Adapter) LoadPersonalInfoByID(ctx context.Context, id string) (*models.PersonalInfo, error) {
	return a.personal.GetByID(ctx, id)
}

func (a *Adapter) SavePersonalInfo(ctx context.Context, p *models.PersonalInfo) (string, error) {
	return a.personal.Save(ctx, p)
}

func (a *Adapter) UpdatePersonalInfo(ctx context.Context, id string, patch models.PersonalInfoPatch) (*models.PersonalInfo, error) {
	return a.personal.Update(ctx, id, patch)
}

func (a *Adapter) LoadFundItems(ctx context.Context, userID string) ([]models.FundItem, error) {
	return a.funds.GetAllByUserID(ctx, userID)
}

// ReplaceFundItems swaps the user's fund item set atomically.
func (a *Adapter) ReplaceFundItems(ctx context.Context, userID string, items []models.FundItem) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return a.newFunds(tx).ReplaceAll(ctx, userID, items)
	})
}

func (a *Adapter) LoadTravelInfo(ctx context.Context, userID, destination string) (*models.TravelInfo, error) {
	return a.travel.GetByUserAndDestination(ctx, userID, destination)
}

func (a *Adapter) LoadAllTravelInfo(ctx context.Context, userID string) ([]models.TravelInfo, error) {
	return a.travel.GetAllByUserID(ctx, userID)
}

func (a *Adapter) SaveTravelInfo(ctx context.Context, t *models.TravelInfo) (string, error) {
	return a.travel.Save(ctx, t)
}

// UpdateTravelInfo merges the patch into the destination's field map. The
// read-merge-write runs in one transaction so interleaved patches cannot
// drop each other's fields.
func (a *Adapter) UpdateTravelInfo(ctx context.Context, userID, destination string, patch models.TravelInfoPatch) (*models.TravelInfo, error) {
	var updated *models.TravelInfo
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		updated, err = a.newTravel(tx).Update(ctx, userID, destination, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// BatchLoad loads every entity type for the user in a single transaction.
// It is semantically equivalent to one load per entity type; the facade
// must populate the cache identically for both paths.
func (a *Adapter) BatchLoad(ctx context.Context, userID string) (*models.UserData, error) {
	data := &models.UserData{}
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if data.Passport, err = a.newPassports(tx).GetPrimaryByUserID(ctx, userID); err != nil {
			return err
		}
		if data.PersonalInfo, err = a.newPersonal(tx).GetByUserID(ctx, userID); err != nil {
			return err
		}
		if data.FundItems, err = a.newFunds(tx).GetAllByUserID(ctx, userID); err != nil {
			return err
		}
		if data.TravelInfo, err = a.newTravel(tx).GetAllByUserID(ctx, userID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch load for user %s: %w", userID, err)
	}
	return data, nil
}
