// Package config loads console settings from defaults, an optional YAML
// file, an optional .env file, the process environment and command line
// flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-mfadmin/pkg/apiclient"
	"github.com/goliatone/go-mfadmin/pkg/notify"
	"github.com/goliatone/go-mfadmin/pkg/render"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "MFADMIN_"

var (
	// ErrBaseURLMissing is returned by Validate when no backend is configured.
	ErrBaseURLMissing = errors.New("config: api.base_url is required")
	// ErrInvalidTTL is returned by Validate for a non-positive toast TTL.
	ErrInvalidTTL = errors.New("config: toast.ttl must be positive")
)

// API configures the backend adapter.
type API struct {
	BaseURL  string        `yaml:"base_url"`
	Tenant   string        `yaml:"tenant"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Server configures the console HTTP server.
type Server struct {
	Addr string `yaml:"addr"`
	// DevProxy mounts /api/* as a reverse proxy to the backend.
	DevProxy bool `yaml:"dev_proxy"`
}

// Journal configures the mutation journal. An empty path disables it.
type Journal struct {
	Path string `yaml:"path"`
}

// Theme selects the console theme and variant.
type Theme struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

// Toast configures the notifier.
type Toast struct {
	TTL time.Duration `yaml:"ttl"`
}

// Config is the resolved console configuration.
type Config struct {
	API     API     `yaml:"api"`
	Server  Server  `yaml:"server"`
	Journal Journal `yaml:"journal"`
	Theme   Theme   `yaml:"theme"`
	Toast   Toast   `yaml:"toast"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:  "https://localhost:8443/fineract-provider/api/v1",
			Tenant:   "default",
			Username: "mifos",
			Password: "password",
			Timeout:  apiclient.DefaultTimeout,
		},
		Server: Server{
			Addr:     ":8080",
			DevProxy: true,
		},
		Theme: Theme{
			Name: render.DefaultThemeName,
		},
		Toast: Toast{
			TTL: notify.DefaultTTL,
		},
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// File is the YAML file. When empty MFADMIN_CONFIG is consulted; no file
	// at all is fine.
	File string
	// EnvFile is read with godotenv. Missing files are ignored. Defaults to
	// ".env".
	EnvFile string
	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Args are parsed as flags when non-nil.
	Args []string
	// FlagSet receives the console flags. A fresh set is created when nil so
	// callers can register their own flags first.
	FlagSet *flag.FlagSet
}

// Load resolves the configuration. Flags win over the environment, the
// environment wins over .env, and .env wins over the YAML file.
func Load(opts LoadOptions) (Config, error) {
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	if opts.EnvFile == "" {
		opts.EnvFile = ".env"
	}

	fs := opts.FlagSet
	if fs == nil {
		fs = flag.NewFlagSet("mfadmin", flag.ContinueOnError)
	}
	flags := registerFlags(fs)
	if opts.Args != nil {
		if err := fs.Parse(opts.Args); err != nil {
			return Config{}, fmt.Errorf("config: parse flags: %w", err)
		}
	}

	cfg := Default()

	file := strings.TrimSpace(flags.configFile)
	if file == "" {
		file = strings.TrimSpace(opts.File)
	}
	if file == "" {
		file, _ = opts.LookupEnv(EnvPrefix + "CONFIG")
	}
	if file != "" {
		if err := cfg.loadYAML(file); err != nil {
			return Config{}, err
		}
	}

	dotenv, err := readDotEnv(opts.EnvFile)
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		if value, ok := opts.LookupEnv(key); ok {
			return value, true
		}
		value, ok := dotenv[key]
		return value, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}

	if err := flags.apply(fs, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports unusable settings.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return ErrBaseURLMissing
	}
	if _, err := url.Parse(c.API.BaseURL); err != nil {
		return fmt.Errorf("config: api.base_url: %w", err)
	}
	if c.Toast.TTL <= 0 {
		return ErrInvalidTTL
	}
	if c.API.Timeout < 0 {
		return errors.New("config: api.timeout must not be negative")
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"API_BASE_URL":  &c.API.BaseURL,
		"API_TENANT":    &c.API.Tenant,
		"API_USERNAME":  &c.API.Username,
		"API_PASSWORD":  &c.API.Password,
		"SERVER_ADDR":   &c.Server.Addr,
		"JOURNAL_PATH":  &c.Journal.Path,
		"THEME_NAME":    &c.Theme.Name,
		"THEME_VARIANT": &c.Theme.Variant,
	}
	for key, dst := range strs {
		if value, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(value)
		}
	}

	durations := map[string]*time.Duration{
		"API_TIMEOUT": &c.API.Timeout,
		"TOAST_TTL":   &c.Toast.TTL,
	}
	for key, dst := range durations {
		value, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
		}
		*dst = d
	}

	if value, ok := lookup(EnvPrefix + "SERVER_DEV_PROXY"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: %sSERVER_DEV_PROXY: %w", EnvPrefix, err)
		}
		c.Server.DevProxy = b
	}
	return nil
}

type flagValues struct {
	configFile string
	baseURL    string
	tenant     string
	username   string
	password   string
	timeout    time.Duration
	addr       string
	devProxy   bool
	journal    string
	theme      string
	variant    string
	toastTTL   time.Duration
}

func registerFlags(fs *flag.FlagSet) *flagValues {
	v := &flagValues{}
	fs.StringVar(&v.configFile, "config", "", "YAML config file")
	fs.StringVar(&v.baseURL, "api", "", "backend base URL")
	fs.StringVar(&v.tenant, "tenant", "", "backend tenant identifier")
	fs.StringVar(&v.username, "username", "", "backend username")
	fs.StringVar(&v.password, "password", "", "backend password")
	fs.DurationVar(&v.timeout, "timeout", 0, "backend request timeout")
	fs.StringVar(&v.addr, "addr", "", "console listen address")
	fs.BoolVar(&v.devProxy, "dev-proxy", false, "proxy /api/* to the backend")
	fs.StringVar(&v.journal, "journal", "", "sqlite journal path (empty disables)")
	fs.StringVar(&v.theme, "theme", "", "console theme name")
	fs.StringVar(&v.variant, "variant", "", "console theme variant")
	fs.DurationVar(&v.toastTTL, "toast-ttl", 0, "toast lifetime")
	return v
}

// apply copies only the flags that were set explicitly.
func (v *flagValues) apply(fs *flag.FlagSet, cfg *Config) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api":
			cfg.API.BaseURL = strings.TrimSpace(v.baseURL)
		case "tenant":
			cfg.API.Tenant = strings.TrimSpace(v.tenant)
		case "username":
			cfg.API.Username = v.username
		case "password":
			cfg.API.Password = v.password
		case "timeout":
			cfg.API.Timeout = v.timeout
		case "addr":
			cfg.Server.Addr = strings.TrimSpace(v.addr)
		case "dev-proxy":
			cfg.Server.DevProxy = v.devProxy
		case "journal":
			cfg.Journal.Path = strings.TrimSpace(v.journal)
		case "theme":
			cfg.Theme.Name = strings.TrimSpace(v.theme)
		case "variant":
			cfg.Theme.Variant = strings.TrimSpace(v.variant)
		case "toast-ttl":
			if v.toastTTL <= 0 {
				err = ErrInvalidTTL
			}
			cfg.Toast.TTL = v.toastTTL
		}
	})
	return err
}
