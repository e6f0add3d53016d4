package personal

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
CREATE TABLE personal_info (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  occupation TEXT NOT NULL DEFAULT '',
  city_of_residence TEXT NOT NULL DEFAULT '',
  country_of_residence TEXT NOT NULL DEFAULT '',
  phone_code TEXT NOT NULL DEFAULT '',
  phone_number TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSave_OneRowPerUser(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	first := &models.PersonalInfo{UserID: "u1", Occupation: "engineer"}
	id1, err := r.Save(ctx, first)
	require.NoError(t, err)

	// a second full save for the same user updates in place, keeping the id
	second := &models.PersonalInfo{UserID: "u1", Occupation: "architect", Email: "a@b.example"}
	id2, err := r.Save(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM personal_info WHERE user_id='u1'`).Scan(&count))
	assert.Equal(t, 1, count)

	got, err := r.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "architect", got.Occupation)
	assert.Equal(t, "a@b.example", got.Email)
}

func TestGetByUserID_Absent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	got, err := r.GetByUserID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate_Partial(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Save(ctx, &models.PersonalInfo{UserID: "u1", Occupation: "engineer", Email: "a@b.example"})
	require.NoError(t, err)

	got, err := r.Update(ctx, id, models.PersonalInfoPatch{"cityOfResidence": "Seoul"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Seoul", got.CityOfResidence)
	assert.Equal(t, "engineer", got.Occupation)
	assert.Equal(t, "a@b.example", got.Email)
}

func TestUpdate_UnknownField(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Save(ctx, &models.PersonalInfo{UserID: "u1"})
	require.NoError(t, err)

	_, err = r.Update(ctx, id, models.PersonalInfoPatch{"passportNumber": "A1"})
	require.ErrorIs(t, err, common.ErrorUnknownField)
}

func TestUpdate_MissingRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Update(context.Background(), "nope", models.PersonalInfoPatch{"occupation": "x"})
	require.ErrorIs(t, err, common.ErrorNotFound)
}
