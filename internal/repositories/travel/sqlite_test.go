package travel

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdocs/tripdocs/internal/common"
	"github.com/tripdocs/tripdocs/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE travel_info (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  destination TEXT NOT NULL,
  fields TEXT NOT NULL DEFAULT '{}',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  UNIQUE(user_id, destination)
);
`)
	require.NoError(t, err)
	return db
}

func TestSave_OneRowPerUserDestination(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	korea := &models.TravelInfo{UserID: "u1", Destination: "KR", Fields: map[string]string{"ketaNumber": "K123"}}
	id1, err := r.Save(ctx, korea)
	require.NoError(t, err)

	// same user, different destination is an independent record
	usa := &models.TravelInfo{UserID: "u1", Destination: "US", Fields: map[string]string{"estaNumber": "E456"}}
	_, err = r.Save(ctx, usa)
	require.NoError(t, err)

	// re-saving the pair updates in place, keeping the id
	korea2 := &models.TravelInfo{UserID: "u1", Destination: "KR", Fields: map[string]string{"ketaNumber": "K999"}}
	id3, err := r.Save(ctx, korea2)
	require.NoError(t, err)
	assert.Equal(t, id1, id3)

	all, err := r.GetAllByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 2)

	kr, err := r.GetByUserAndDestination(ctx, "u1", "KR")
	require.NoError(t, err)
	require.NotNil(t, kr)
	assert.Equal(t, "K999", kr.Fields["ketaNumber"])
}

func TestGetByUserAndDestination_Absent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	got, err := r.GetByUserAndDestination(context.Background(), "u1", "JP")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate_MergesIntoFieldMap(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Save(ctx, &models.TravelInfo{
		UserID:      "u1",
		Destination: "KR",
		Fields:      map[string]string{"ketaNumber": "K123", "arrivalDate": "2026-09-01"},
	})
	require.NoError(t, err)

	got, err := r.Update(ctx, "u1", "KR", models.TravelInfoPatch{"arrivalDate": "2026-09-15"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2026-09-15", got.Fields["arrivalDate"])
	assert.Equal(t, "K123", got.Fields["ketaNumber"], "unpatched fields stay")
}

func TestUpdate_MissingRecord(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Update(context.Background(), "u1", "KR", models.TravelInfoPatch{"x": "y"})
	require.ErrorIs(t, err, common.ErrorNotFound)
}
