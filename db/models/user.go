package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nrednav/cuid2"

	"go.hackfix.me/tracks/db/types"
)

// User is a registered account. Password holds the one-way hash of the
// user's password, never the plaintext.
type User struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
	Password  string
	Name      string
	Tracks    []string
}

// Profile is the public view of a user.
type Profile struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Tracks   []string `json:"tracks"`
}

// Profile returns the public view of the user, omitting the password hash.
func (u *User) Profile() Profile {
	tracks := u.Tracks
	if tracks == nil {
		tracks = []string{}
	}
	return Profile{ID: u.ID, Username: u.Username, Name: u.Name, Tracks: tracks}
}

// Save stores the user data in the database. When inserting, a new ID is
// generated if one isn't set. When updating, either the user ID or Username
// must be set for the lookup.
func (u *User) Save(ctx context.Context, d types.Querier, update bool) error {
	if u.Tracks == nil {
		u.Tracks = []string{}
	}
	tracks, err := json.Marshal(u.Tracks)
	if err != nil {
		return fmt.Errorf("failed encoding user tracks: %w", err)
	}

	timeNow := d.TimeNow().UTC()
	if update { //nolint:nestif // It's fine.
		filter, filterStr, err := u.createFilter("")
		if err != nil {
			return errors.New("must provide either a username or ID to update")
		}

		args := append([]any{timeNow, u.Password, u.Name, string(tracks)}, filter.Args...)
		updateStmt := fmt.Sprintf(`UPDATE users
			SET updated_at = ?,
			    password = ?,
			    name = ?,
			    tracks = ?
			WHERE %s`, filter.Where)
		res, err := d.ExecContext(ctx, updateStmt, args...)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed getting affected rows: %w", err)
		}
		if n == 0 {
			return types.NoResultError{ModelName: "user", ID: filterStr}
		}
		if n > 1 {
			return types.IntegrityError{Msg: fmt.Sprintf("updated %d users", n)}
		}
		u.UpdatedAt = timeNow
	} else {
		if u.Username == "" {
			return types.InvalidInputError{Msg: "username must not be empty"}
		}
		if u.ID == "" {
			u.ID = cuid2.Generate()
		}

		insertStmt := `INSERT INTO users
		(id, created_at, updated_at, username, password, name, tracks)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
		_, err := d.ExecContext(ctx, insertStmt,
			u.ID, timeNow, timeNow, u.Username, u.Password, u.Name, string(tracks))
		if err != nil {
			return types.Err("user", fmt.Sprintf("username '%s'", u.Username), err)
		}

		u.CreatedAt = timeNow
		u.UpdatedAt = timeNow
	}

	return nil
}

// Load the user data from the database. Either the user ID or Username must
// be set for the lookup.
func (u *User) Load(ctx context.Context, d types.Querier) error {
	filter, filterStr, err := u.createFilter("u.")
	if err != nil {
		return err
	}

	users, err := Users(ctx, d, filter)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		return types.NoResultError{ModelName: "user", ID: filterStr}
	}

	// The unique constraints on users.id and users.username should return
	// only a single result.
	if len(users) > 1 {
		return types.IntegrityError{Msg: fmt.Sprintf("found %d users with %s", len(users), filterStr)}
	}
	*u = *users[0]

	return nil
}

// Delete removes the user data from the database. Either the user ID or
// Username must be set for the lookup. It returns an error if the user doesn't
// exist.
func (u *User) Delete(ctx context.Context, d types.Querier) error {
	filter, filterStr, err := u.createFilter("")
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf(`DELETE FROM users WHERE %s`, filter.Where)

	res, err := d.ExecContext(ctx, stmt, filter.Args...)
	if err != nil {
		return types.Err("user", filterStr, err)
	}

	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("failed getting affected rows: %w", err)
	} else if n == 0 {
		return types.NoResultError{ModelName: "user", ID: filterStr}
	}

	return nil
}

func (u *User) createFilter(prefix string) (*types.Filter, string, error) {
	switch {
	case u.ID != "":
		return types.NewFilter(prefix+"id = ?", []any{u.ID}), fmt.Sprintf("ID '%s'", u.ID), nil
	case u.Username != "":
		return types.NewFilter(prefix+"username = ?", []any{u.Username}),
			fmt.Sprintf("username '%s'", u.Username), nil
	default:
		return nil, "", types.InvalidInputError{Msg: "either user ID or Username must be set"}
	}
}

// Users returns one or more users from the database. An optional filter can be
// passed to limit the results.
func Users(ctx context.Context, d types.Querier, filter *types.Filter) (users []*User, rerr error) {
	query := `SELECT u.id, u.created_at, u.updated_at, u.username, u.password, u.name, u.tracks
		FROM users u %s
		ORDER BY u.username ASC %s`

	where, limit, args := filter.Clauses()
	query = fmt.Sprintf(query, where, limit)

	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.LoadError{ModelName: "users", Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing users rows: %w", err)
		}
	}()

	users = make([]*User, 0)
	for rows.Next() {
		var (
			u      User
			tracks string
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
