// Package config resolves the journal configuration from, in increasing
// precedence, defaults, a .journal.yaml file, a .env file and JOURNAL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/journal/pkg/store"
)

// Keys understood in the config file. Environment variables use the
// JOURNAL_ prefix with dots replaced by underscores.
const (
	KeyPath           = "path"
	KeyStoreBackend   = "store.backend"
	KeyServerAddr     = "server.addr"
	KeyServerRoot     = "server.root"
	KeyServerRate     = "server.rate"
	KeyServerBurst    = "server.burst"
	KeyRemoteURL      = "remote.url"
	KeyRemoteDebounce = "remote.debounce"
	KeyAdminPassword  = "admin.password"
)

// Server configures the self-hosted API.
type Server struct {
	Addr string
	// Root is the data directory of the API; users and uploads live below it.
	Root  string
	Rate  float64
	Burst int
}

// Remote configures sync against a server.
type Remote struct {
	URL      string
	Debounce time.Duration
}

// Config is the resolved configuration. It satisfies store.BackendConfig.
type Config struct {
	Path          string
	Store         string
	Server        Server
	Remote        Remote
	AdminPassword string

	// File is the config file that was read, if any.
	File string
}

var _ store.BackendConfig = (*Config)(nil)

func (c *Config) BasePath() string { return c.Path }

func (c *Config) Backend() string { return c.Store }

// Load resolves the configuration. A non-empty file is read instead of
// searching for .journal.yaml.
func Load(file string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(KeyPath, "~/.journal")
	v.SetDefault(KeyStoreBackend, store.BackendDiskv)
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyServerRoot, "")
	v.SetDefault(KeyServerRate, 5.0)
	v.SetDefault(KeyServerBurst, 20)
	v.SetDefault(KeyRemoteURL, "")
	v.SetDefault(KeyRemoteDebounce, "2s")
	v.SetDefault(KeyAdminPassword, "")

	v.SetEnvPrefix("JOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".journal") // .yaml is implicit
		if override := os.Getenv("JOURNAL_CONFIG_PATH"); override != "" {
			v.AddConfigPath(override)
		}
		v.AddConfigPath("./")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	path, err := homedir.Expand(v.GetString(KeyPath))
	if err != nil {
		return nil, fmt.Errorf("config: expand path: %w", err)
	}
	root := v.GetString(KeyServerRoot)
	if root == "" {
		root = path + string(os.PathSeparator) + "server"
	}
	root, err = homedir.Expand(root)
	if err != nil {
		return nil, fmt.Errorf("config: expand server root: %w", err)
	}

	cfg := &Config{
		Path:  path,
		Store: strings.ToLower(v.GetString(KeyStoreBackend)),
		Server: Server{
			Addr:  v.GetString(KeyServerAddr),
			Root:  root,
			Rate:  v.GetFloat64(KeyServerRate),
			Burst: v.GetInt(KeyServerBurst),
		},
		Remote: Remote{
			URL:      strings.TrimRight(v.GetString(KeyRemoteURL), "/"),
			Debounce: v.GetDuration(KeyRemoteDebounce),
		},
		AdminPassword: v.GetString(KeyAdminPassword),
		File:          v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Store {
	case store.BackendDiskv, store.BackendSQLite:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store)
	}
	if c.Path == "" {
		return errors.New("config: path is required")
	}
	if c.Server.Rate < 0 || c.Server.Burst < 0 {
		return errors.New("config: server rate and burst must not be negative")
	}
	if c.Remote.Debounce < 0 {
		return errors.New("config: remote debounce must not be negative")
	}
	return nil
}
