package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	actx "go.hackfix.me/tracks/app/context"
	aerrors "go.hackfix.me/tracks/app/errors"
	"go.hackfix.me/tracks/auth"
)

// The User command manages users in the local database.
type User struct {
	Add struct {
		Username string `arg:"" help:"The unique name the user logs in with."`
		Name     string `arg:"" optional:"" help:"The display name of the user."`
		Password string `required:"" help:"The password of the user."`
	} `kong:"cmd,help='Add a new user.'"`
	Rm struct {
		Username string `arg:"" help:"The unique name the user logs in with."`
	} `kong:"cmd,help='Remove a user.'"`
	Ls struct{} `kong:"cmd,help='List users.'"`
}

// Run the user command.
func (c *User) Run(kctx *kong.Context, appCtx *actx.Context) error {
	if err := checkInitialized(appCtx); err != nil {
		return err
	}
	dbCtx := appCtx.Store.NewContext()

	switch strings.Fields(kctx.Command())[1] {
	case "add":
		svc, err := newService(appCtx, "")
		if err != nil {
			return err
		}
		user, err := svc.Register(dbCtx, c.Add.Username, c.Add.Password, c.Add.Name)
		if err != nil {
			return aerrors.NewRuntimeError(
				fmt.Sprintf("failed adding user '%s'", c.Add.Username), err, "")
		}
		fmt.Fprintln(appCtx.Stdout, auth.RegisteredMessage(user.Username))
	case "rm":
		if err := appCtx.Store.DeleteUser(dbCtx, c.Rm.Username); err != nil {
			return aerrors.NewRuntimeError(
				fmt.Sprintf("failed removing user '%s'", c.Rm.Username), err, "")
		}
	case "ls":
		users, err := appCtx.Store.ListUsers(dbCtx)
		if err != nil {
			return aerrors.NewRuntimeError("failed listing users", err, "")
		}

		data := make([][]string, len(users))
		for i, user := range users {
			data[i] = []string{
				user.Username, user.Name, strconv.Itoa(len(user.Tracks)),
				user.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			}
		}

		header := []string{"Username", "Name", "Tracks", "Created"}
		if err = renderTable(header, data, appCtx.Stdout); err != nil {
			return aerrors.NewRuntimeError("failed rendering table", err, "")
		}
	}

	return nil
}
