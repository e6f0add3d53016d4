package models

import (
	"fmt"
	"time"

	"github.com/tripdocs/tripdocs/internal/common"
)

// FundItem is one proof-of-funds record. Fund items form a list entity:
// zero or more per user, replaced as a set rather than merged field by
// field. Amount is kept in minor currency units.
type FundItem struct {
	ID        string
	UserID    string
	FundType  string
	Amount    int64
	Currency  string
	CreatedAt time.Time
}

// Validate checks a single fund item before it is persisted.
func (f *FundItem) Validate() error {
	if f.FundType == "" {
		return fmt.Errorf("%w: fund type is required", common.ErrorValidation)
	}
	if f.Amount <= 0 {
		return fmt.Errorf("%w: fund amount must be positive", common.ErrorValidation)
	}
	if len(f.Currency) != 3 {
		return fmt.Errorf("%w: currency %q must be a 3-letter code", common.ErrorValidation, f.Currency)
	}
	return nil
}
