package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	//nolint:revive,nolintlint // Idiomatic way of loading DB libraries.
	_ "github.com/glebarez/go-sqlite"
	"github.com/pressly/goose/v3"

	"go.hackfix.me/tracks/db/migrations"
	"go.hackfix.me/tracks/db/models"
	"go.hackfix.me/tracks/db/queries"
	"go.hackfix.me/tracks/db/types"
)

// DB wraps sql.DB with additional context and migration functionality.
type DB struct {
	*sql.DB
	ctx     context.Context
	timeNow func() time.Time
	path    string
}

var _ types.Querier = (*DB)(nil)

// Open creates and configures a new SQLite database connection.
func Open(ctx context.Context, path string, timeNow func() time.Time) (*DB, error) {
	var d *DB
	if strings.Contains(path, "mode=memory") || strings.Contains(path, ":memory:") {
		defer func() {
			if d != nil {
				// Keep the shared in-memory database alive between queries.
				d.SetMaxIdleConns(10)
				d.SetConnMaxLifetime(time.Duration(math.Inf(1)))
			}
		}()
	}

	sqliteDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed opening SQLite database: %w", err)
	}

	d = &DB{DB: sqliteDB, ctx: ctx, path: path, timeNow: timeNow}

	// Enable foreign key enforcement
	_, err = d.ExecContext(ctx, `PRAGMA foreign_keys = ON;`)
	if err != nil {
		return nil, fmt.Errorf("failed enabling foreign key enforcement: %w", err)
	}

	return d, nil
}

// Migrate applies all pending schema migrations.
func (d *DB) Migrate(logger *slog.Logger) error {
	return Migrate(d.NewContext(), d.DB, goose.DialectSQLite3, migrations.DialectSQLite, logger)
}

// Init creates the database schema and records the application version.
func (d *DB) Init(appVersion string, logger *slog.Logger) error {
	dblogger := logger.With("path", d.path)
	dblogger.Debug("initializing database")

	tables, err := queries.Tables(d.NewContext(), d)
	if err != nil {
		return fmt.Errorf("failed listing tables: %w", err)
	}
	if len(tables) > 0 {
		return fmt.Errorf("database at %s is not empty", d.path)
	}

	if err = d.Migrate(dblogger); err != nil {
		return err
	}

	_, err = d.ExecContext(d.NewContext(),
		`INSERT INTO _meta (version, created_at) VALUES (?, ?)`,
		appVersion, d.TimeNow().UTC())
	if err != nil {
		return fmt.Errorf("failed inserting into _meta: %w", err)
	}

	dblogger.Info("database initialized")

	return nil
}

// Version returns the application version the database was initialized with.
// An invalid value means the database hasn't been initialized.
func (d *DB) Version() (sql.Null[string], error) {
	return queries.Version(d.NewContext(), d)
}

// NewContext returns a new child context of the main database context.
func (d *DB) NewContext() context.Context {
	return d.ctx
}

// TimeNow returns the current system time.
func (d *DB) TimeNow() time.Time {
	return d.timeNow()
}

// FindUser returns the user with the given username. It returns a
// types.NoResultError if the user doesn't exist.
func (d *DB) FindUser(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{Username: username}
	if err := user.Load(ctx, d); err != nil {
		return nil, err
	}

	return user, nil
}

// CreateUser inserts a new user. It returns a *types.DuplicateError if the
// username is already taken.
func (d *DB) CreateUser(ctx context.Context, user *models.User) error {
	return user.Save(ctx, d, false)
}

// DeleteUser removes the user with the given username. It returns a
// types.NoResultError if the user doesn't exist.
func (d *DB) DeleteUser(ctx context.Context, username string) error {
	return (&models.User{Username: username}).Delete(ctx, d)
}

// ListUsers returns all users ordered by username.
func (d *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	return models.Users(ctx, d, nil)
}

// Migrate runs all pending goose migrations for the given dialect against db.
func Migrate(
	ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string, logger *slog.Logger,
) error {
	fsys, err := migrations.FS(dir)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("failed creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		var partialErr *goose.PartialError
		if errors.As(err, &partialErr) {
			return fmt.Errorf("failed applying migration %d: %w",
				partialErr.Failed.Source.Version, partialErr.Err)
		}
		return fmt.Errorf("failed applying migrations: %w", err)
	}

	for _, res := range results {
		logger.Debug("applied migration",
			"version", res.Source.Version, "path", res.Source.Path,
			"duration", res.Duration)
	}

	return nil
}
