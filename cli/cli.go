package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"go.hackfix.me/tracks/app/config"
	actx "go.hackfix.me/tracks/app/context"
)

// CLI is the command line interface of tracks.
type CLI struct {
	Init     Init     `kong:"cmd,help='Initialize the database and configuration.'"`
	Serve    Serve    `kong:"cmd,help='Start the web server.'"`
	User     User     `kong:"cmd,help='Manage users in the local database.'"`
	Register Register `kong:"cmd,help='Register a new user on a tracks server.'"`
	Login    Login    `kong:"cmd,help='Log in to a tracks server and print the access token.'"`
	Whoami   Whoami   `kong:"cmd,help='Show the profile of the user a token was issued for.'"`

	Log struct {
		Level slog.Level `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Set the app logging level."`
	} `embed:"" prefix:"log-"`
	// NOTE: I'm deliberately not using kong.ConfigFlag or its support for reading
	// values from configuration files, since I want to manage configuration
	// independently from the CLI.
	ConfigFile string           `kong:"default='${configFile}',help='Path to the tracks configuration file.'"`
	DataDir    string           `kong:"default='${dataDir}',help='Path to the directory where tracks data is stored.'"`
	Version    kong.VersionFlag `kong:"help='Output version and exit.'"`

	kong *kong.Kong
	kctx *kong.Context
}

// New initializes the command-line interface.
func New(configFilePath, dataDir, version string) (*CLI, error) {
	c := &CLI{}
	kparser, err := kong.New(c,
		kong.Name("tracks"),
		kong.UsageOnError(),
		kong.DefaultEnvars("TRACKS"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"configFile": configFilePath,
			"dataDir":    dataDir,
			"version":    version,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating the Kong parser: %w", err)
	}

	c.kong = kparser

	return c, nil
}

// Execute starts the command execution. Parse must be called before this method.
func (c *CLI) Execute(appCtx *actx.Context) error {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	c.kong.Stdout = appCtx.Stdout
	c.kong.Stderr = appCtx.Stderr

	//nolint:wrapcheck // This is fine.
	return c.kctx.Run(appCtx)
}

// Parse the given command line arguments. This method must be called before
// Execute.
func (c *CLI) Parse(args []string) error {
	kctx, err := c.kong.Parse(args)
	if err != nil {
		return fmt.Errorf("failed parsing CLI arguments: %w", err)
	}
	c.kctx = kctx

	return nil
}

// Command returns the full path of the executed command.
func (c *CLI) Command() string {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	cmdPath := []string{}
	for _, p := range c.kctx.Path {
		if p.Command != nil {
			cmdPath = append(cmdPath, p.Command.Name)
		}
	}

	return strings.Join(cmdPath, " ")
}

// NeedsStore returns true if the executed command works on the local
// database. The HTTP client commands don't.
func (c *CLI) NeedsStore() bool {
	root, _, _ := strings.Cut(c.Command(), " ")
	switch root {
	case "init", "serve", "user":
		return true
	default:
		return false
	}
}

// ApplyConfig applies configuration values to the CLI, but only if they weren't
// already set.
func (c *CLI) ApplyConfig(cfg *config.Config) {
	if c.Serve.Address == "" && cfg.Server.Address.Valid {
		c.Serve.Address = cfg.Server.Address.V
	}
	if c.Serve.JWTSecret == "" && cfg.Auth.JWTSecret.Valid {
		c.Serve.JWTSecret = cfg.Auth.JWTSecret.V
	}
	if c.Serve.Address == "" {
		c.Serve.Address = defaultAddress
	}
}
