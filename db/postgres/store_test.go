package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/tracks/db/models"
	"go.hackfix.me/tracks/db/types"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	selectUserQ = `(?s)^SELECT\s+id,\s*created_at,\s*updated_at,\s*username,\s*password,\s*name,\s*tracks\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`
	insertUserQ = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*created_at,\s*updated_at,\s*username,\s*password,\s*name,\s*tracks\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)$`
	deleteUserQ = `^DELETE\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`
	listUsersQ  = `(?s)^SELECT\s+id,.*FROM\s+users\s+ORDER\s+BY\s+username\s+ASC$`
)

var userCols = []string{"id", "created_at", "updated_at", "username", "password", "name", "tracks"}

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return NewStore(db, func() time.Time { return timeNow }), mock
}

func TestStoreFindUser(t *testing.T) {
	t.Parallel()

	errDown := errors.New("db down")

	tests := []struct {
		name     string
		username string
		setup    func(mock sqlmock.Sqlmock)
		expUser  *models.User
		expErr   string
	}{
		{
			name:     "ok/found",
			username: "alice",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectUserQ).WithArgs("alice").WillReturnRows(
					sqlmock.NewRows(userCols).AddRow(
						"u1", timeNow, timeNow, "alice", "hash", "Alice", []byte(`["t1"]`)))
			},
			expUser: &models.User{
				ID: "u1", CreatedAt: timeNow, UpdatedAt: timeNow, Username: "alice",
				Password: "hash", Name: "Alice", Tracks: []string{"t1"},
			},
		},
		{
			name:     "err/not_found",
			username: "bob",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectUserQ).WithArgs("bob").WillReturnError(sql.ErrNoRows)
			},
			expErr: "user with username 'bob' doesn't exist",
		},
		{
			name:     "err/db_down",
			username: "alice",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectUserQ).WithArgs("alice").WillReturnError(errDown)
			},
			expErr: "failed loading user: db down",
		},
		{
			name:     "err/bad_tracks",
			username: "alice",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectUserQ).WithArgs("alice").WillReturnRows(
					sqlmock.NewRows(userCols).AddRow(
						"u1", timeNow, timeNow, "alice", "hash", "Alice", []byte(`{`)))
			},
			expErr: "failed scanning user data: failed decoding tracks: unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, mock := newStoreWithMock(t)
			tt.setup(mock)

			user, err := store.FindUser(context.Background(), tt.username)
			if tt.expErr != "" {
				assert.EqualError(t, err, tt.expErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expUser, user)
		})
	}
}

func TestStoreCreateUser(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		store, mock := newStoreWithMock(t)
		mock.ExpectExec(insertUserQ).
			WithArgs(sqlmock.AnyArg(), timeNow, timeNow, "alice", "hash", "Alice", []byte(`[]`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		user := &models.User{Username: "alice", Password: "hash", Name: "Alice"}
		err := store.CreateUser(context.Background(), user)
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, timeNow, user.CreatedAt)
		assert.Equal(t, []string{}, user.Tracks)
	})

	t.Run("err/duplicate", func(t *testing.T) {
		t.Parallel()

		store, mock := newStoreWithMock(t)
		mock.ExpectExec(insertUserQ).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})

		err := store.CreateUser(context.Background(), &models.User{ID: "u1", Username: "alice"})
		var dupErr *types.DuplicateError
		require.ErrorAs(t, err, &dupErr)
		assert.EqualError(t, err, "user with username 'alice' already exists")
	})

	t.Run("err/other", func(t *testing.T) {
		t.Parallel()

		store, mock := newStoreWithMock(t)
		errDown := errors.New("db down")
		mock.ExpectExec(insertUserQ).WillReturnError(errDown)

		err := store.CreateUser(context.Background(), &models.User{ID: "u1", Username: "alice"})
		assert.ErrorIs(t, err, errDown)
		assert.False(t, types.IsDuplicate(err))
	})

	t.Run("err/empty_username", func(t *testing.T) {
		t.Parallel()

		store, _ := newStoreWithMock(t)
		err := store.CreateUser(context.Background(), &models.User{})
		assert.EqualError(t, err, "username must not be empty")
	})
}

func TestStoreDeleteUser(t *testing.T) {
	t.Parallel()

	store, mock := newStoreWithMock(t)
	mock.ExpectExec(deleteUserQ).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteUserQ).WithArgs("bob").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.DeleteUser(context.Background(), "alice"))

	err := store.DeleteUser(context.Background(), "bob")
	assert.True(t, types.IsNoResult(err))
}

func TestStoreListUsers(t *testing.T) {
	t.Parallel()

	store, mock := newStoreWithMock(t)
	mock.ExpectQuery(listUsersQ).WillReturnRows(
		sqlmock.NewRows(userCols).
			AddRow("u1", timeNow, timeNow, "alice", "hash", "Alice", []byte(`[]`)).
			AddRow("u2", timeNow, timeNow, "bob", "hash", "Bob", []byte(`["a","b"]`)))

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, []string{"a", "b"}, users[1].Tracks)
}

func TestDBVersion(t *testing.T) {
	t.Parallel()

	const versionQ = `^SELECT\s+version\s+FROM\s+_meta$`

	tests := []struct {
		name       string
		setup      func(mock sqlmock.Sqlmock)
		expVersion sql.Null[string]
		expErr     string
	}{
		{
			name: "ok/initialized",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(versionQ).WillReturnRows(
					sqlmock.NewRows([]string{"version"}).AddRow("v1.0.0"))
			},
			expVersion: sql.Null[string]{V: "v1.0.0", Valid: true},
		},
		{
			name: "ok/no_rows",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(versionQ).WillReturnRows(sqlmock.NewRows([]string{"version"}))
			},
		},
		{
			name: "ok/no_table",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(versionQ).WillReturnError(&pgconn.PgError{Code: undefinedTable})
			},
		},
		{
			name: "err/query",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(versionQ).WillReturnError(errors.New("db down"))
			},
			expErr: "failed reading database version: db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
			require.NoError(t, err)
			defer conn.Close()
			tt.setup(mock)

			d := newDB(context.Background(), conn, func() time.Time { return timeNow })
			version, err := d.Version()
			if tt.expErr != "" {
				assert.EqualError(t, err, tt.expErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expVersion, version)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBInitMeta(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec(`^INSERT\s+INTO\s+_meta\s+\(version,\s*created_at\)\s+VALUES\s+\(\$1,\s*\$2\)$`).
		WithArgs("v1.0.0", timeNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	d := newDB(context.Background(), conn, func() time.Time { return timeNow })
	require.NoError(t, d.initMeta("v1.0.0"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
