package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"go.hackfix.me/tracks/app"
	actx "go.hackfix.me/tracks/app/context"
	aerrors "go.hackfix.me/tracks/app/errors"
)

func main() {
	// A .env file is optional.
	_ = godotenv.Load()

	stderr := colorable.NewColorable(os.Stderr)
	a, err := app.New("tracks",
		filepath.Join(xdg.ConfigHome, "tracks", "config.json"),
		filepath.Join(xdg.DataHome, "tracks"),
		app.WithEnv(osEnv{}),
		app.WithFDs(os.Stdin, colorable.NewColorable(os.Stdout), stderr),
		app.WithFS(osfs.New()),
		app.WithLogger(
			isatty.IsTerminal(os.Stdout.Fd()),
			isatty.IsTerminal(os.Stderr.Fd()),
		),
	)
	if err != nil {
		aerrors.Errorf(stderr, err)
		os.Exit(1)
	}
	if err = a.Run(os.Args[1:]); err != nil {
		aerrors.Errorf(stderr, err)
		// Request details of client errors are only shown with --log-level=DEBUG.
		aerrors.Log(slog.Default(), slog.LevelDebug, err)
		os.Exit(1)
	}
}

type osEnv struct{}

var _ actx.Environment = &osEnv{}

func (e osEnv) Get(key string) string {
	return os.Getenv(key)
}

func (e osEnv) Set(key, val string) error {
	return os.Setenv(key, val)
}
