package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db, DriverPostgres)
	repo.now = func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }
	return repo, mock
}

func TestPostgresState(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO client_state (name, value, updated_at) VALUES ($1, $2, $3)")).
		WithArgs("currentUser", `{"id":"1"}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.SetState(ctx, "currentUser", `{"id":"1"}`))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM client_state WHERE name=$1")).
		WithArgs("currentUser").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"id":"1"}`))
	value, ok, err := repo.GetState(ctx, "currentUser")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"1"}`, value)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM client_state WHERE name=$1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	_, ok, err = repo.GetState(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListPipelinesByOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM pipelines WHERE owner_id=$1 ORDER BY created_at, id")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).
			AddRow(`{"id":"p1","jobTitle":"Frontend Developer","company":"TechCorp Inc.","currentStage":3,"overallStatus":"active"}`))

	list, err := repo.ListPipelines(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].ID)
	assert.Equal(t, models.PipelineActive, list[0].OverallStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateUserMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET data=$1, role=$2 WHERE id=$3")).
		WithArgs(sqlmock.AnyArg(), "student", "42").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateUser(context.Background(), models.User{ID: "42", Role: models.RoleStudent})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
