package cli

import (
	"database/sql"
	"fmt"

	actx "go.hackfix.me/tracks/app/context"
	aerrors "go.hackfix.me/tracks/app/errors"
	"go.hackfix.me/tracks/crypto"
)

// jwtSecretSize is the amount of random bytes in generated JWT secrets.
const jwtSecretSize = 32

// The Init command creates the tracks database schema, and generates the JWT
// secret if one isn't configured.
type Init struct{}

// Run the init command.
func (c *Init) Run(appCtx *actx.Context) error {
	if appCtx.VersionInit != "" {
		return aerrors.NewRuntimeError(
			fmt.Sprintf("tracks is already initialized with version %s", appCtx.VersionInit), nil, "")
	}

	err := appCtx.Store.Init(appCtx.Version.Semantic, appCtx.Logger)
	if err != nil {
		return aerrors.NewRuntimeError("failed initializing database", err, "")
	}

	if appCtx.Config.Auth.JWTSecret.Valid {
		return nil
	}

	secret, err := crypto.RandomKey(jwtSecretSize)
	if err != nil {
		return aerrors.NewRuntimeError("failed generating JWT secret", err, "")
	}
	appCtx.Config.Auth.JWTSecret = sql.Null[string]{V: secret, Valid: true}
	if err = appCtx.Config.Save(); err != nil {
		return aerrors.NewRuntimeError("failed saving configuration", err, "")
	}
	appCtx.Logger.Info("generated JWT secret", "config_file", appCtx.Config.Path())

	return nil
}
