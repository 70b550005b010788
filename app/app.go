package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"

	"go.hackfix.me/tracks/app/config"
	actx "go.hackfix.me/tracks/app/context"
	aerrors "go.hackfix.me/tracks/app/errors"
	"go.hackfix.me/tracks/cli"
	"go.hackfix.me/tracks/db"
	"go.hackfix.me/tracks/db/postgres"
)

// App is the application.
type App struct {
	name string
	ctx  *actx.Context
	cli  *cli.CLI
	// arguments used to build a new CLI on every Run, so that flag values from
	// an earlier run are never reused.
	configFilePath, dataDir, version string
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application.
func New(name, configFilePath, dataDir string, opts ...Option) (*App, error) {
	version, err := actx.GetVersion()
	if err != nil {
		return nil, err
	}

	defaultCtx := &actx.Context{
		Ctx:     context.Background(),
		FS:      memoryfs.New(),
		Logger:  slog.Default(),
		TimeNow: time.Now,
		Version: version,
	}
	app := &App{name: name, ctx: defaultCtx}

	for _, opt := range opts {
		opt(app)
	}

	app.configFilePath = configFilePath
	app.dataDir = dataDir
	app.version = fmt.Sprintf("%s %s", app.name, app.ctx.Version.String())
	app.cli, err = cli.New(app.configFilePath, app.dataDir, app.version)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run initializes the application environment and starts execution of the
// application.
func (app *App) Run(args []string) error {
	var err error
	if app.cli, err = cli.New(app.configFilePath, app.dataDir, app.version); err != nil {
		return err
	}
	if err = app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
		slog.SetLogLoggerLevel(app.cli.Log.Level)
	}

	app.ctx.Config = config.NewConfig(app.ctx.FS, app.cli.ConfigFile)
	if err := app.ctx.Config.Load(); err != nil {
		return aerrors.NewRuntimeError("failed loading configuration", err, "")
	}
	app.ctx.Config.SetDefaults()
	app.cli.ApplyConfig(app.ctx.Config)

	if app.cli.NeedsStore() {
		if err := app.initStore(); err != nil {
			return err
		}
	}

	if err := app.cli.Execute(app.ctx); err != nil {
		return err
	}

	return nil
}

// initStore opens the configured database, unless one was provided with
// WithStore, and applies pending migrations if it's already initialized.
func (app *App) initStore() error {
	if app.ctx.Store == nil {
		store, err := app.openStore()
		if err != nil {
			return err
		}
		app.ctx.Store = store
	}

	version, err := app.ctx.Store.Version()
	if err != nil {
		return aerrors.NewRuntimeError("failed reading database version", err, "")
	}
	if !version.Valid {
		return nil
	}
	app.ctx.VersionInit = version.V

	if err = app.ctx.Store.Migrate(app.ctx.Logger); err != nil {
		return aerrors.NewRuntimeError("failed migrating database", err, "")
	}

	return nil
}

func (app *App) openStore() (actx.Store, error) {
	dbCfg := app.ctx.Config.Database

	switch dbCfg.Driver.V {
	case config.DriverPostgres:
		if !dbCfg.DSN.Valid {
			return nil, aerrors.NewRuntimeError("the PostgreSQL DSN is not set", nil,
				fmt.Sprintf("Set database.dsn in %s.", app.ctx.Config.Path()))
		}
		store, err := postgres.Open(app.ctx.Ctx, dbCfg.DSN.V, app.ctx.TimeNow)
		if err != nil {
			return nil, aerrors.NewRuntimeError("failed opening database", err, "")
		}
		return store, nil
	default:
		if err := app.ctx.FS.MkdirAll(app.cli.DataDir, 0o700); err != nil {
			return nil, aerrors.NewRuntimeError("failed creating data directory", err, "")
		}
		dbPath := filepath.Join(app.cli.DataDir, "tracks.db")
		store, err := db.Open(app.ctx.Ctx, dbPath, app.ctx.TimeNow)
		if err != nil {
			return nil, aerrors.NewRuntimeError("failed opening database", err, "")
		}
		return store, nil
	}
}
