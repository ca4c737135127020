package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*TokenRepo, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewTokenRepo(sqlx.NewDb(db, "sqlmock")), mock
}

func TestTokenRepoRecord(t *testing.T) {
	repo, mock := newMockRepo(t)

	rec := &SessionToken{
		Token:         "signed-jwt",
		PrincipalID:   uuid.New(),
		PrincipalType: "user",
		ExpiresAt:     time.Now().Add(time.Hour),
	}

	mock.ExpectExec("INSERT INTO session_tokens").
		WithArgs(rec.Token, rec.PrincipalID, rec.PrincipalType, rec.WorkspaceID, rec.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Record(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoIsActive(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("signed-jwt").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	active, err := repo.IsActive(context.Background(), "signed-jwt")
	require.NoError(t, err)
	assert.True(t, active)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("revoked-jwt").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	active, err = repo.IsActive(context.Background(), "revoked-jwt")
	require.NoError(t, err)
	assert.False(t, active)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoRevoke(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE session_tokens").
		WithArgs("signed-jwt").
		WillReturnResult(sqlmock.NewResult(0, 1))

	changed, err := repo.Revoke(context.Background(), "signed-jwt")
	require.NoError(t, err)
	assert.True(t, changed)

	// Revoking again matches no rows; not an error
	mock.ExpectExec("UPDATE session_tokens").
		WithArgs("signed-jwt").
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err = repo.Revoke(context.Background(), "signed-jwt")
	require.NoError(t, err)
	assert.False(t, changed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoDeleteExpired(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM session_tokens").
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}
