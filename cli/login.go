package cli

import (
	"fmt"

	actx "go.hackfix.me/tracks/app/context"
	"go.hackfix.me/tracks/web/client"
)

// Login authenticates with a remote tracks server and prints the access token.
type Login struct {
	Address  string `arg:"" help:"Address of the tracks server, as a URL or [host]:port."`
	Username string `arg:"" help:"The unique name to log in with."`
	Password string `required:"" help:"The password of the user."`
}

// Run the login command.
func (c *Login) Run(appCtx *actx.Context) error {
	cl, err := client.New(c.Address, appCtx.Logger)
	if err != nil {
		return err
	}

	token, err := cl.Login(appCtx.Ctx, c.Username, c.Password)
	if err != nil {
		return err
	}
	fmt.Fprintln(appCtx.Stdout, token)

	return nil
}
