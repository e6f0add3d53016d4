package passports

import (
	"context"
	"database/sql"
	"testing"
	"time"

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
CREATE TABLE passports (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  passport_number TEXT NOT NULL DEFAULT '',
  full_name TEXT NOT NULL DEFAULT '',
  surname TEXT NOT NULL DEFAULT '',
  given_names TEXT NOT NULL DEFAULT '',
  nationality TEXT NOT NULL DEFAULT '',
  date_of_birth TEXT NOT NULL DEFAULT '',
  expiry_date TEXT NOT NULL DEFAULT '',
  sex TEXT NOT NULL DEFAULT '',
  visa_number TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestSave_AssignsIDAndTimestamps(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := &models.Passport{UserID: "u1", PassportNumber: "A00000001"}
	id, err := r.Save(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
	assert.False(t, p.UpdatedAt.IsZero())
}

func TestSave_UpsertsByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := &models.Passport{UserID: "u1", PassportNumber: "A00000001"}
	id, err := r.Save(ctx, p)
	require.NoError(t, err)

	p.FullName = "SMITH, JOHN"
	id2, err := r.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A00000001", got.PassportNumber)
	assert.Equal(t, "SMITH, JOHN", got.FullName)
}

func TestGetPrimaryByUserID_OldestWins(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := db.Exec(`INSERT INTO passports(id, user_id, passport_number, created_at, updated_at)
		VALUES ('old', 'u1', 'A1', ?, ?), ('new', 'u1', 'A2', ?, ?)`, older, older, newer, newer)
	require.NoError(t, err)

	got, err := r.GetPrimaryByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "old", got.ID)
}

func TestGetPrimaryByUserID_AbsentIsNotAnError(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	got, err := r.GetPrimaryByUserID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate_PartialPatchLeavesOtherColumns(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := &models.Passport{UserID: "u1", PassportNumber: "A00000001", Nationality: "KOR"}
	id, err := r.Save(ctx, p)
	require.NoError(t, err)

	got, err := r.Update(ctx, id, models.PassportPatch{"fullName": "SMITH, JOHN"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "SMITH, JOHN", got.FullName)
	assert.Equal(t, "A00000001", got.PassportNumber)
	assert.Equal(t, "KOR", got.Nationality)
}

func TestUpdate_UnknownFieldRejected(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Save(ctx, &models.Passport{UserID: "u1", PassportNumber: "A1"})
	require.NoError(t, err)

	_, err = r.Update(ctx, id, models.PassportPatch{"shoeSize": "42"})
	require.ErrorIs(t, err, common.ErrorUnknownField)
}

func TestUpdate_MissingRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Update(context.Background(), "nope", models.PassportPatch{"fullName": "X"})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_EmptyPatchIsARead(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	id, err := r.Save(ctx, &models.Passport{UserID: "u1", PassportNumber: "A1"})
	require.NoError(t, err)

	got, err := r.Update(ctx, id, models.PassportPatch{})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A1", got.PassportNumber)
}
