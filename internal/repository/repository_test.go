package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"missioncontrol/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundMapsNoRows(t *testing.T) {
	err := notFound("get project", pgx.ErrNoRows)
	assert.ErrorIs(t, err, ErrNotFound)

	other := errors.New("boom")
	err = notFound("get project", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "projects_client_slug_key"}
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", pgErr), "projects_client_slug_key"))
	assert.True(t, isUniqueViolation(pgErr, ""))
	assert.False(t, isUniqueViolation(pgErr, "other_key"))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(errors.New("duplicate"), ""))
}

func TestDateConversions(t *testing.T) {
	assert.Nil(t, dateOut(pgtype.Date{}))
	assert.False(t, dateIn(nil).Valid)

	d := model.NewDate(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	in := dateIn(&d)
	require.True(t, in.Valid)
	assert.Equal(t, "2026-05-01", dateOut(in).String())
}

func TestDecodeQAChecks(t *testing.T) {
	qa, err := decodeQAChecks(nil)
	require.NoError(t, err)
	assert.Nil(t, qa)

	qa, err = decodeQAChecks([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, qa)

	qa, err = decodeQAChecks([]byte(`{"feature_works":true,"eslint_passes":false}`))
	require.NoError(t, err)
	assert.Equal(t, model.QAChecks{"feature_works": true, "eslint_passes": false}, qa)

	_, err = decodeQAChecks([]byte(`[1]`))
	assert.Error(t, err)
}

func TestDecodeMetadata(t *testing.T) {
	md, err := decodeMetadata(nil)
	require.NoError(t, err)
	assert.Empty(t, md)

	md, err = decodeMetadata([]byte(`{"url":"https://example.test/run/1"}`))
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/run/1", md["url"])
}

func TestParentMissing(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "blockers_project_id_fkey"}
	assert.True(t, isForeignKeyViolation(fmt.Errorf("insert: %w", fk)))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isForeignKeyViolation(errors.New("fk")))

	err := parentMissing("create blocker", fk)
	assert.ErrorIs(t, err, ErrNotFound)
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23503", pgErr.Code)

	// a task whose module is outside the project selects no row
	assert.ErrorIs(t, parentMissing("create task", pgx.ErrNoRows), ErrNotFound)

	other := errors.New("connection reset")
	err = parentMissing("create blocker", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, ErrNotFound)
}
