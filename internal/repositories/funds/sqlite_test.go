package funds

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdocs/tripdocs/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE fund_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  fund_type TEXT NOT NULL DEFAULT '',
  amount INTEGER NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestReplaceAll_SwapsTheSet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	err := r.ReplaceAll(ctx, "u1", []models.FundItem{
		{FundType: "bank_balance", Amount: 500000, Currency: "USD"},
		{FundType: "sponsorship", Amount: 200000, Currency: "USD"},
	})
	require.NoError(t, err)

	got, err := r.GetAllByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// replacing again drops the old set entirely
	err = r.ReplaceAll(ctx, "u1", []models.FundItem{
		{FundType: "scholarship", Amount: 100000, Currency: "EUR"},
	})
	require.NoError(t, err)

	got, err = r.GetAllByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "scholarship", got[0].FundType)
	assert.Equal(t, int64(100000), got[0].Amount)
	assert.NotEmpty(t, got[0].ID)
}

func TestReplaceAll_EmptySetClears(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.ReplaceAll(ctx, "u1", []models.FundItem{
		{FundType: "bank_balance", Amount: 1, Currency: "USD"},
	}))
	require.NoError(t, r.ReplaceAll(ctx, "u1", nil))

	got, err := r.GetAllByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceAll_UsersAreIndependent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.ReplaceAll(ctx, "u1", []models.FundItem{{FundType: "a", Amount: 1, Currency: "USD"}}))
	require.NoError(t, r.ReplaceAll(ctx, "u2", []models.FundItem{{FundType: "b", Amount: 2, Currency: "KRW"}}))

	require.NoError(t, r.ReplaceAll(ctx, "u1", nil))

	got, err := r.GetAllByUserID(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].FundType)
}
