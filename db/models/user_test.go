package models_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/tracks/db"
	"go.hackfix.me/tracks/db/models"
	"go.hackfix.me/tracks/db/types"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	d, err := db.Open(t.Context(),
		fmt.Sprintf("file:tracks-%x?mode=memory&cache=shared", rndName),
		func() time.Time { return timeNow })
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	require.NoError(t, d.Init("test", slog.New(slog.DiscardHandler)))

	return d
}

func TestUserSave(t *testing.T) {
	t.Parallel()

	d := newTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		user   *models.User
		update bool
		expErr string
	}{
		{
			name: "ok/insert",
			user: &models.User{Username: "alice", Password: "hash", Name: "Alice"},
		},
		{
			name: "ok/insert_with_tracks",
			user: &models.User{Username: "bob", Password: "hash", Tracks: []string{"t1", "t2"}},
		},
		{
			name:   "ok/update",
			user:   &models.User{Username: "alice", Password: "newhash", Name: "Alice A."},
			update: true,
		},
		{
			name:   "err/insert_duplicate",
			user:   &models.User{Username: "alice", Password: "hash"},
			expErr: "user with username 'alice' already exists",
		},
		{
			name:   "err/insert_empty_username",
			user:   &models.User{Password: "hash"},
			expErr: "username must not be empty",
		},
		{
			name:   "err/update_missing",
			user:   &models.User{Username: "carol"},
			update: true,
			expErr: "user with username 'carol' doesn't exist",
		},
		{
			name:   "err/update_no_lookup",
			user:   &models.User{Name: "nobody"},
			update: true,
			expErr: "must provide either a username or ID to update",
		},
	}

	// Subtests run sequentially since they depend on each other's state.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Save(ctx, d, tt.update)
			if tt.expErr != "" {
				assert.EqualError(t, err, tt.expErr)
				return
			}
			require.NoError(t, err)

			loaded := &models.User{Username: tt.user.Username}
			require.NoError(t, loaded.Load(ctx, d))
			assert.Equal(t, tt.user.Password, loaded.Password)
			assert.Equal(t, tt.user.Name, loaded.Name)
			assert.Equal(t, tt.user.Tracks, loaded.Tracks)
			assert.NotEmpty(t, loaded.ID)
		})
	}
}

func TestUserLoadDelete(t *testing.T) {
	t.Parallel()

	d := newTestDB(t)
	ctx := context.Background()

	user := &models.User{ID: "u1", Username: "alice", Password: "hash", Name: "Alice"}
	require.NoError(t, user.Save(ctx, d, false))

	byID := &models.User{ID: "u1"}
	require.NoError(t, byID.Load(ctx, d))
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, models.Profile{
		ID: "u1", Username: "alice", Name: "Alice", Tracks: []string{},
	}, byID.Profile())

	err := (&models.User{}).Load(ctx, d)
	assert.EqualError(t, err, "either user ID or Username must be set")

	users, err := models.Users(ctx, d, nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, (&models.User{Username: "alice"}).Delete(ctx, d))

	err = (&models.User{Username: "alice"}).Delete(ctx, d)
	assert.True(t, types.IsNoResult(err))

	err = (&models.User{ID: "u1"}).Load(ctx, d)
	assert.EqualError(t, err, "user with ID 'u1' doesn't exist")
}

func TestUsers(t *testing.T) {
	t.Parallel()

	d := newTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		require.NoError(t, (&models.User{Username: name, Password: "hash"}).Save(ctx, d, false))
	}

	users, err := models.Users(ctx, d, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)

	filter := types.NewFilter("u.username <> ?", []any{"alice"}).
		And(types.NewFilter("u.username <> ?", []any{"carol"}))
	users, err = models.Users(ctx, d, filter)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)

	users, err = models.Users(ctx, d, types.NewFilter("1=1", nil).WithLimit(2))
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}
