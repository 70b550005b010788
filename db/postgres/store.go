// Package postgres provides a PostgreSQL-backed user store.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nrednav/cuid2"

	"go.hackfix.me/tracks/db/models"
	"go.hackfix.me/tracks/db/types"
)

// uniqueViolation is the SQLSTATE code for unique_violation.
const uniqueViolation = "23505"

// DBTX is the subset of *sql.DB and *sql.Tx used by the store.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements user persistence on PostgreSQL.
type Store struct {
	db      DBTX
	timeNow func() time.Time
}

// NewStore returns a Store that runs queries on db.
func NewStore(db DBTX, timeNow func() time.Time) *Store {
	return &Store{db: db, timeNow: timeNow}
}

// FindUser returns the user with the given username. It returns a
// types.NoResultError if the user doesn't exist.
func (s *Store) FindUser(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, created_at, updated_at, username, password, name, tracks
		FROM users
		WHERE username = $1`

	var (
		user   models.User
		tracks []byte
	)
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Username,
		&user.Password, &user.Name, &tracks)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NoResultError{
				ModelName: "user", ID: fmt.Sprintf("username '%s'", username),
			}
		}
		return nil, types.LoadError{ModelName: "user", Err: err}
	}

	if user.Tracks, err = decodeTracks(tracks); err != nil {
		return nil, types.ScanError{ModelName: "user", Err: err}
	}

	return &user, nil
}

// CreateUser inserts a new user. It returns a *types.DuplicateError if the
// username is already taken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.Username == "" {
		return types.InvalidInputError{Msg: "username must not be empty"}
	}
	if user.ID == "" {
		user.ID = cuid2.Generate()
	}
	if user.Tracks == nil {
		user.Tracks = []string{}
	}
	tracks, err := json.Marshal(user.Tracks)
	if err != nil {
		return fmt.Errorf("failed encoding user tracks: %w", err)
	}

	timeNow := s.timeNow().UTC()
	query := `INSERT INTO users (id, created_at, updated_at, username, password, name, tracks)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = s.db.ExecContext(ctx, query,
		user.ID, timeNow, timeNow, user.Username, user.Password, user.Name, tracks)
	if err != nil {
		return pgErr("user", fmt.Sprintf("username '%s'", user.Username), err)
	}

	user.CreatedAt = timeNow
	user.UpdatedAt = timeNow

	return nil
}

// DeleteUser removes the user with the given username. It returns a
// types.NoResultError if the user doesn't exist.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("failed deleting user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed getting affected rows: %w", err)
	}
	if n == 0 {
		return types.NoResultError{ModelName: "user", ID: fmt.Sprintf("username '%s'", username)}
	}

	return nil
}

// ListUsers returns all users ordered by username.
func (s *Store) ListUsers(ctx context.Context) (users []*models.User, rerr error) {
	query := `SELECT id, created_at, updated_at, username, password, name, tracks
		FROM users
		ORDER BY username ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, types.LoadError{ModelName: "users", Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing users rows: %w", err)
		}
	}()

	users = make([]*models.User, 0)
	for rows.Next() {
		var (
			u      models.User
			tracks []byte
		)
		err = rows.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Username, &u.Password, &u.Name, &tracks)
		if err != nil {
			return nil, types.ScanError{ModelName: "user", Err: err}
		}
		if u.Tracks, err = decodeTracks(tracks); err != nil {
			return nil, types.ScanError{ModelName: "user", Err: err}
		}
		users = append(users, &u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over users rows: %w", err)
	}

	return users, nil
}

func decodeTracks(data []byte) ([]string, error) {
	tracks := []string{}
	if len(data) == 0 {
		return tracks, nil
	}
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("failed decoding tracks: %w", err)
	}
	if tracks == nil {
		tracks = []string{}
	}

	return tracks, nil
}

// pgErr converts an expected PostgreSQL error into a friendly DB error.
func pgErr(modelName, id string, err error) error {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == uniqueViolation {
		return &types.DuplicateError{ModelName: modelName, ID: id}
	}

	return err
}
