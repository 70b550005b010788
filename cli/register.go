package cli

import (
	"fmt"

	actx "go.hackfix.me/tracks/app/context"
	"go.hackfix.me/tracks/web/client"
)

// Register creates a new user on a remote tracks server.
type Register struct {
	Address  string `arg:"" help:"Address of the tracks server, as a URL or [host]:port."`
	Username string `arg:"" help:"The unique name to log in with."`
	Name     string `arg:"" optional:"" help:"The display name of the user."`
	Password string `required:"" help:"The password of the user."`
}

// Run the register command.
func (c *Register) Run(appCtx *actx.Context) error {
	cl, err := client.New(c.Address, appCtx.Logger)
	if err != nil {
		return err
	}

	msg, err := cl.Register(appCtx.Ctx, c.Username, c.Password, c.Name)
	if err != nil {
		return err
	}
	fmt.Fprintln(appCtx.Stdout, msg)

	return nil
}
