package cli

import (
	"strings"

	actx "go.hackfix.me/tracks/app/context"
	aerrors "go.hackfix.me/tracks/app/errors"
	"go.hackfix.me/tracks/web/client"
)

// Whoami prints the profile of the user an access token was issued for.
type Whoami struct {
	Address string `arg:"" help:"Address of the tracks server, as a URL or [host]:port."`
	Token   string `required:"" help:"The access token returned by the login command."`
}

// Run the whoami command.
func (c *Whoami) Run(appCtx *actx.Context) error {
	cl, err := client.New(c.Address, appCtx.Logger)
	if err != nil {
		return err
	}

	profile, err := cl.Me(appCtx.Ctx, c.Token)
	if err != nil {
		return err
	}

	header := []string{"ID", "Username", "Name", "Tracks"}
	data := [][]string{{profile.ID, profile.Username, profile.Name, strings.Join(profile.Tracks, ",")}}
	if err = renderTable(header, data, appCtx.Stdout); err != nil {
		return aerrors.NewRuntimeError("failed rendering table", err, "")
	}

	return nil
}
