package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/milan604/swretail-go/pkg/errors"
)

const redacted = "***REDACTED***"

// Config is the wrapper around viper with extra helpers.
type Config struct {
	*viper.Viper

	sensitiveKeys map[string]struct{}
	// set when a file or a name/path search was configured
	wantsFile bool
}

// Option is a functional option for New.
type Option func(*Config) error

// Load creates a Config instance. Use options to customize behavior.
// Example:
//
//	cfg, err := config.Load(
//	  config.WithDefaults(config.DefaultSettings()),
//	  config.WithFile("swretail.yaml"),
//	  config.WithEnv(""),
//	  config.WithPFlags(pflag.CommandLine),
//	)
func Load(opts ...Option) (*Config, error) {
	cfg := &Config{
		Viper:         viper.New(),
		sensitiveKeys: map[string]struct{}{KeyPassword: {}},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.Wrap(err, "config: applying option")
		}
	}

	if cfg.wantsFile {
		if err := cfg.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) && !stderrors.Is(err, fs.ErrNotExist) {
				return nil, errors.Wrap(err, "config: read")
			}
			log.Printf("config: no config file found, using defaults/env/flags")
		}
	}

	return cfg, nil
}

// New is Load for program start-up: it exits the process on failure.
func New(opts ...Option) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		var withStack *errors.Error
		if stderrors.As(err, &withStack) {
			log.Fatalf("%v\n%s", err, withStack.StackTrace())
		}
		log.Fatalf("%v", err)
	}
	return cfg
}

/* ---------------------------
   Options
----------------------------*/

// WithDefaults sets default values (applied first)
func WithDefaults(defaults map[string]interface{}) Option {
	return func(c *Config) error {
		for k, v := range defaults {
			c.SetDefault(k, v)
		}
		return nil
	}
}

// WithFile sets an exact config file (absolute or relative).
// viper will use SetConfigFile(path) so the extension determines type.
func WithFile(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return nil
		}
		c.SetConfigFile(path)
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if ext != "" {
			c.SetConfigType(ext)
		}
		c.wantsFile = true
		return nil
	}
}

// WithConfigNamePaths sets config name (without ext) and search paths.
func WithConfigNamePaths(name string, paths ...string) Option {
	return func(c *Config) error {
		if name != "" {
			c.SetConfigName(name)
		}
		if len(paths) == 0 {
			paths = []string{".", "./env", "/etc/swretail"}
		}
		for _, p := range paths {
			c.AddConfigPath(p)
		}
		c.wantsFile = true
		return nil
	}
}

// WithFormat forces config format (yaml/json/toml/etc.) when files don't have extension.
func WithFormat(format string) Option {
	return func(c *Config) error {
		if format != "" {
			c.SetConfigType(format)
		}
		return nil
	}
}

// WithProfile loads a profile-specific file name (e.g., swretail.dev.yaml)
func WithProfile(baseName, profile string, paths ...string) Option {
	return func(c *Config) error {
		name := baseName
		if profile == "" {
			profile = os.Getenv("APP_ENV")
		}
		if profile != "" {
			name = fmt.Sprintf("%s.%s", baseName, profile)
		}
		return WithConfigNamePaths(name, paths...)(c)
	}
}

// WithEnv enables environment variable overrides.
// With an empty prefix swretail.endpoint is read from SWRETAIL_ENDPOINT;
// prefix "APP" turns that into APP_SWRETAIL_ENDPOINT.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		if prefix != "" {
			c.SetEnvPrefix(prefix)
		}
		c.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		c.AutomaticEnv()
		return nil
	}
}

// WithPFlags binds a pflag.FlagSet to viper. If flags are nil, we bind the default command line.
func WithPFlags(flags *pflag.FlagSet) Option {
	return func(c *Config) error {
		if flags == nil {
			flags = pflag.CommandLine
		}
		return c.BindPFlags(flags)
	}
}

// RegisterFlags defines the flags understood by DefaultSettings on fs.
// Call it before fs.Parse and pass fs to WithPFlags.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyEndpoint, "", "SWRetail API endpoint URL")
	fs.String(KeyUsername, "", "SWRetail API username")
	fs.String(KeyPassword, "", "SWRetail API password")
	fs.Duration(KeyTimeout, defaultTimeout, "request timeout")
	fs.String(KeyLogLevel, "", "log level")
}

// WithDotEnv reads key=val lines from a .env file (path) and merges into viper.
// If path is empty, attempts ".env" in working directory. Apply it after
// WithDefaults so env-style names resolve to the dotted keys.
func WithDotEnv(path string) Option {
	return func(c *Config) error {
		if path == "" {
			path = ".env"
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil
		}
		envV := viper.New()
		envV.SetConfigFile(path)
		envV.SetConfigType("env")
		if err := envV.ReadInConfig(); err != nil {
			return err
		}
		// SWRETAIL_ENDPOINT -> swretail.endpoint for keys viper already knows
		toEnv := strings.NewReplacer(".", "_", "-", "_")
		known := make(map[string]string)
		for _, k := range c.AllKeys() {
			known[toEnv.Replace(k)] = k
		}
		for _, k := range envV.AllKeys() {
			key := strings.ToLower(k)
			if dotted, ok := known[key]; ok {
				key = dotted
			}
			c.Set(key, envV.Get(k))
		}
		return nil
	}
}

// WithSensitiveKeys registers keys which should be redacted when printing/logging.
func WithSensitiveKeys(keys ...string) Option {
	return func(c *Config) error {
		for _, k := range keys {
			c.sensitiveKeys[strings.ToLower(k)] = struct{}{}
		}
		return nil
	}
}

/* ---------------------------
   Hot reload
----------------------------*/

// Watch re-reads the config file whenever it changes and then calls
// onChange. It needs a config file (WithFile or a name/path search).
func (c *Config) Watch(onChange func(*Config)) {
	c.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("config: file changed: %s", e.Name)
		if onChange != nil {
			onChange(c)
		}
	})
	c.WatchConfig()
}

// WatchKey calls apply with the new value of key each time a reload changes
// it. A failed apply is logged and retried on the next change.
func (c *Config) WatchKey(key string, apply func(string) error) {
	var mu sync.Mutex
	last := c.GetString(key)
	c.Watch(func(c *Config) {
		mu.Lock()
		defer mu.Unlock()
		v := c.GetString(key)
		if v == last {
			return
		}
		if err := apply(v); err != nil {
			log.Printf("config: applying %s=%q: %v", key, v, err)
			return
		}
		last = v
	})
}

/* ---------------------------
   Typed getters with defaults
----------------------------*/

// GetDurationD returns time.Duration or def
func (c *Config) GetDurationD(key string, def time.Duration) time.Duration {
	if c.IsSet(key) {
		if d := c.GetDuration(key); d > 0 {
			return d
		}
	}
	return def
}

/* ---------------------------
   Validation & Utilities
----------------------------*/

// ValidateRequired ensures keys exist and are non-empty.
func (c *Config) ValidateRequired(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if !c.IsSet(k) || c.GetString(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required keys: %v", strings.Join(missing, ", "))
	}
	return nil
}

// MaskedSettings returns every effective key (dotted form) with sensitive
// values redacted.
func (c *Config) MaskedSettings() map[string]interface{} {
	out := map[string]interface{}{}
	for _, k := range c.AllKeys() {
		if _, ok := c.sensitiveKeys[k]; ok {
			out[k] = redacted
			continue
		}
		out[k] = c.Get(k)
	}
	return out
}

// Print prints all settings to stdout, sorted, with sensitive keys masked.
func (c *Config) Print() {
	masked := c.MaskedSettings()
	keys := make([]string, 0, len(masked))
	for k := range masked {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s = %v\n", k, masked[k])
	}
}
