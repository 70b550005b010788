package config

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/tracks/xtime"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the application configuration, backed by a filesystem for
// persistence.
type Config struct {
	Server   Server
	Auth     Auth
	Database Database

	fs   vfs.FileSystem
	path string
}

// NewConfig creates a new Config instance with the specified filesystem
// and configuration file path.
func NewConfig(fs vfs.FileSystem, path string) *Config {
	return &Config{fs: fs, path: path}
}

// Load reads and parses the configuration file from the filesystem.
// If the file doesn't exist, it initializes with an empty configuration.
func (c *Config) Load() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}

	configJSON, err := vfs.ReadFile(c.fs, c.path)
	if err != nil && !vfs.IsErrNotExist(err) {
		return fmt.Errorf("failed reading configuration file: %w", err)
	}

	// Ensure that unmarshalling JSON doesn't fail if the file doesn't exist or is empty.
	if len(configJSON) == 0 {
		configJSON = []byte("{}")
	}

	if err = json.Unmarshal(configJSON, c); err != nil {
		return fmt.Errorf("failed parsing configuration file: %w", err)
	}

	return nil
}

// Path returns the filesystem path where the configuration is stored.
func (c *Config) Path() string {
	return c.path
}

// Save writes the current configuration to the filesystem as JSON. The file
// is only readable by the owner, since it may contain secrets.
func (c *Config) Save() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed serializing configuration data: %w", err)
	}
	if err = vfs.WriteFile(c.fs, c.path, configJSON, 0o600); err != nil {
		return fmt.Errorf("failed writing configuration file: %w", err)
	}

	return nil
}

// Server defines configuration options specific to the HTTP server.
type Server struct {
	// Address is the network address in [host]:port format the server will listen on.
	Address sql.Null[string] `json:"address"`
}

// Auth defines configuration options for authentication.
type Auth struct {
	// JWTSecret is the shared secret used to sign and verify tokens.
	JWTSecret sql.Null[string] `json:"jwt_secret"`
	// TokenExpiration is the amount of time issued tokens are valid for. 0 means
	// tokens never expire.
	// It serializes from/to xtime.Duration string values.
	TokenExpiration sql.Null[time.Duration] `json:"token_expiration"`
	// PasswordHash is the algorithm used to hash new passwords. Existing hashes
	// of any supported algorithm can always be verified.
	PasswordHash sql.Null[string] `json:"password_hash"`
	// BcryptCost is the bcrypt work factor.
	BcryptCost sql.Null[int] `json:"bcrypt_cost"`
}

// Database defines the storage backend.
type Database struct {
	// Driver is either "sqlite" or "postgres".
	Driver sql.Null[string] `json:"driver"`
	// DSN is the PostgreSQL connection string. SQLite databases are always
	// stored in the data directory.
	DSN sql.Null[string] `json:"dsn"`
}

type cfgWrapper struct {
	Server   srvCfgWrapper  `json:"server"`
	Auth     authCfgWrapper `json:"auth"`
	Database dbCfgWrapper   `json:"database"`
}
type srvCfgWrapper struct {
	Address string `json:"address,omitempty"`
}
type authCfgWrapper struct {
	JWTSecret       string `json:"jwt_secret,omitempty"`
	TokenExpiration string `json:"token_expiration,omitempty"`
	PasswordHash    string `json:"password_hash,omitempty"`
	BcryptCost      int    `json:"bcrypt_cost,omitempty"`
}
type dbCfgWrapper struct {
	Driver string `json:"driver,omitempty"`
	DSN    string `json:"dsn,omitempty"`
}

// MarshalJSON implements custom JSON marshaling to convert sql.Null values
// to their underlying types, omitting invalid/null fields from the output.
func (c Config) MarshalJSON() ([]byte, error) {
	w := cfgWrapper{}

	if c.Server.Address.Valid {
		w.Server.Address = c.Server.Address.V
	}

	if c.Auth.JWTSecret.Valid {
		w.Auth.JWTSecret = c.Auth.JWTSecret.V
	}
	if c.Auth.TokenExpiration.Valid {
		w.Auth.TokenExpiration = xtime.FormatDuration(c.Auth.TokenExpiration.V, time.Second)
	}
	if c.Auth.PasswordHash.Valid {
		w.Auth.PasswordHash = c.Auth.PasswordHash.V
	}
	if c.Auth.BcryptCost.Valid {
		w.Auth.BcryptCost = c.Auth.BcryptCost.V
	}

	if c.Database.Driver.Valid {
		w.Database.Driver = c.Database.Driver.V
	}
	if c.Database.DSN.Valid {
		w.Database.DSN = c.Database.DSN.V
	}

	//nolint:wrapcheck // This is fine.
	return json.Marshal(w)
}

// UnmarshalJSON implements custom JSON unmarshaling to convert plain values
// into sql.Null types and parse duration strings into time.Duration values.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w cfgWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	if w.Server.Address != "" {
		c.Server.Address = sql.Null[string]{V: w.Server.Address, Valid: true}
	}

	if w.Auth.JWTSecret != "" {
		c.Auth.JWTSecret = sql.Null[string]{V: w.Auth.JWTSecret, Valid: true}
	}
	if w.Auth.TokenExpiration != "" {
		dur, err := xtime.ParseDuration(w.Auth.TokenExpiration)
		if err != nil {
			return fmt.Errorf("failed parsing token expiration: %w", err)
		}
		if dur < 0 {
			return fmt.Errorf("token expiration must not be negative, got '%s'", w.Auth.TokenExpiration)
		}
		c.Auth.TokenExpiration = sql.Null[time.Duration]{V: dur, Valid: true}
	}
	if w.Auth.PasswordHash != "" {
		c.Auth.PasswordHash = sql.Null[string]{V: w.Auth.PasswordHash, Valid: true}
	}
	if w.Auth.BcryptCost > 0 {
		c.Auth.BcryptCost = sql.Null[int]{V: w.Auth.BcryptCost, Valid: true}
	}

	if w.Database.Driver != "" {
		switch w.Database.Driver {
		case DriverSQLite, DriverPostgres:
		default:
			return fmt.Errorf("unsupported database driver '%s'", w.Database.Driver)
		}
		c.Database.Driver = sql.Null[string]{V: w.Database.Driver, Valid: true}
	}
	if w.Database.DSN != "" {
		c.Database.DSN = sql.Null[string]{V: w.Database.DSN, Valid: true}
	}

	return nil
}

// SetDefaults sets default configuration values if they weren't set already.
func (c *Config) SetDefaults() {
	if !c.Auth.TokenExpiration.Valid {
		c.Auth.TokenExpiration = sql.Null[time.Duration]{V: 24 * time.Hour, Valid: true}
	}
	if !c.Auth.PasswordHash.Valid {
		c.Auth.PasswordHash = sql.Null[string]{V: "bcrypt", Valid: true}
	}
	if !c.Auth.BcryptCost.Valid {
		c.Auth.BcryptCost = sql.Null[int]{V: 10, Valid: true}
	}
	if !c.Database.Driver.Valid {
		c.Database.Driver = sql.Null[string]{V: DriverSQLite, Valid: true}
	}
}
