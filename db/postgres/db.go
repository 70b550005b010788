package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	//nolint:revive,nolintlint // Idiomatic way of loading DB libraries.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"go.hackfix.me/tracks/db"
	"go.hackfix.me/tracks/db/migrations"
)

// undefinedTable is the SQLSTATE code for undefined_table.
const undefinedTable = "42P01"

// DB is a PostgreSQL connection and the user store running on it.
type DB struct {
	*Store
	conn *sql.DB
	ctx  context.Context
}

// Open connects to the PostgreSQL database at dsn. Migrations are not applied
// until Migrate or Init is called.
func Open(ctx context.Context, dsn string, timeNow func() time.Time) (*DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed opening PostgreSQL database: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed connecting to PostgreSQL database: %w", err)
	}

	return newDB(ctx, conn, timeNow), nil
}

func newDB(ctx context.Context, conn *sql.DB, timeNow func() time.Time) *DB {
	return &DB{Store: NewStore(conn, timeNow), conn: conn, ctx: ctx}
}

// Migrate applies all pending schema migrations.
func (d *DB) Migrate(logger *slog.Logger) error {
	return db.Migrate(d.ctx, d.conn, goose.DialectPostgres, migrations.DialectPostgres, logger)
}

// Init creates the database schema and records the application version.
func (d *DB) Init(appVersion string, logger *slog.Logger) error {
	logger.Debug("initializing database", "driver", "postgres")

	if err := d.Migrate(logger); err != nil {
		return err
	}
	if err := d.initMeta(appVersion); err != nil {
		return err
	}

	logger.Info("database initialized", "driver", "postgres")

	return nil
}

func (d *DB) initMeta(appVersion string) error {
	_, err := d.conn.ExecContext(d.ctx,
		`INSERT INTO _meta (version, created_at) VALUES ($1, $2)`,
		appVersion, d.timeNow().UTC())
	if err != nil {
		return fmt.Errorf("failed inserting into _meta: %w", err)
	}

	return nil
}

// Version returns the application version the database was initialized with.
// An invalid value means the database hasn't been initialized.
func (d *DB) Version() (sql.Null[string], error) {
	var version sql.Null[string]
	err := d.conn.QueryRowContext(d.ctx, `SELECT version FROM _meta`).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == undefinedTable {
			return version, nil
		}
		return version, fmt.Errorf("failed reading database version: %w", err)
	}

	return version, nil
}

// NewContext returns the main database context.
func (d *DB) NewContext() context.Context {
	return d.ctx
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.conn.Close() //nolint:wrapcheck // This is fine.
}
