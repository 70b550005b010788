package context

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/tracks/app/config"
	"go.hackfix.me/tracks/auth"
	"go.hackfix.me/tracks/db/models"
)

// Context contains common objects used by the application. It is passed around
// the application to avoid direct dependencies on external systems, and make
// testing easier.
type Context struct {
	Ctx     context.Context  // global context
	FS      vfs.FileSystem   // filesystem
	Env     Environment      // process environment
	Logger  *slog.Logger     // global logger
	TimeNow func() time.Time // current system time

	// Standard streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Config *config.Config
	// Store is only set for commands that need database access.
	Store Store

	// Metadata
	Version     *VersionInfo
	VersionInit string // version the database was initialized with
}

// Store is the user database of either storage backend.
type Store interface {
	auth.Store
	DeleteUser(ctx context.Context, username string) error
	ListUsers(ctx context.Context) ([]*models.User, error)

	Init(appVersion string, logger *slog.Logger) error
	Migrate(logger *slog.Logger) error
	Version() (sql.Null[string], error)
	NewContext() context.Context
	Close() error
}

// Environment is the interface to the process environment.
type Environment interface {
	Get(string) string
	Set(string, string) error
}
