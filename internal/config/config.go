package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dshills/keyresolve/internal/input"
	"github.com/dshills/keyresolve/internal/input/keymap"
	"github.com/dshills/keyresolve/internal/input/machine"
	"github.com/dshills/keyresolve/internal/logging"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "KEYRESOLVE"

// FileName is the config file name searched for, without extension.
const FileName = "keyresolve"

// Source names a binding file, Lua script or directory.
type Source struct {
	Path string `mapstructure:"path"`
	Rank int    `mapstructure:"rank"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the engine configuration.
type Config struct {
	// Active snapshot
	Platform string   `mapstructure:"platform"`
	Locale   string   `mapstructure:"locale"`
	Scheme   string   `mapstructure:"scheme"`
	Contexts []string `mapstructure:"contexts"`

	// Sources are loaded in addition to the built-in bindings.
	Sources []Source `mapstructure:"sources"`
	Builtin bool     `mapstructure:"builtin"`

	// SequenceTimeout abandons a partially typed sequence. Zero waits forever.
	SequenceTimeout time.Duration `mapstructure:"sequence_timeout"`

	Log LogConfig `mapstructure:"log"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Platform:        runtime.GOOS,
		Locale:          DetectLocale(),
		Scheme:          keymap.DefaultScheme,
		Contexts:        []string{keymap.DefaultContext},
		Builtin:         true,
		SequenceTimeout: time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DetectLocale reads the locale from LC_ALL, LC_MESSAGES or LANG, in that
// order, dropping the encoding and modifier ("de_DE.UTF-8@euro" is
// "de_DE"). The C and POSIX locales yield "".
func DetectLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" {
			return ""
		}
		return v
	}
	return ""
}

// Loader reads configuration through viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with defaults and environment overrides set.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("platform", d.Platform)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("scheme", d.Scheme)
	v.SetDefault("contexts", d.Contexts)
	v.SetDefault("sources", []map[string]any{})
	v.SetDefault("builtin", d.Builtin)
	v.SetDefault("sequence_timeout", d.SequenceTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	return &Loader{v: v}
}

// Viper exposes the underlying instance, e.g. to bind command-line flags.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load reads path, or when path is empty the first keyresolve.{toml,yaml,json}
// found in the user config directory or the working directory. A missing
// implicit file is not an error.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else {
		l.v.SetConfigName(FileName)
		if dir, err := UserConfigDir(); err == nil {
			l.v.AddConfigPath(dir)
		}
		l.v.AddConfigPath(".")
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = l.v.ConfigFileUsed()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration with a fresh Loader.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// UserConfigDir returns the per-user keyresolve config directory.
func UserConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// normalize trims whitespace, drops empty context entries and expands "~"
// in source paths. Relative source paths resolve against the config file.
func (c *Config) normalize() {
	c.Platform = strings.TrimSpace(c.Platform)
	c.Locale = strings.TrimSpace(c.Locale)
	c.Scheme = strings.TrimSpace(c.Scheme)

	contexts := c.Contexts[:0]
	for _, id := range c.Contexts {
		if id = strings.TrimSpace(id); id != "" {
			contexts = append(contexts, id)
		}
	}
	c.Contexts = contexts

	base := ""
	if c.File != "" {
		base = filepath.Dir(c.File)
	}
	for i := range c.Sources {
		c.Sources[i].Path = resolvePath(strings.TrimSpace(c.Sources[i].Path), base)
	}
}

func resolvePath(p, base string) string {
	if p == "" {
		return p
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	if !filepath.IsAbs(p) && base != "" {
		p = filepath.Join(base, p)
	}
	return p
}

// Validate reports every invalid setting, joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if len(c.Contexts) == 0 {
		add("contexts", "at least one context is required", nil)
	}
	if c.Scheme == "" {
		add("scheme", "must not be empty", nil)
	}
	for i, s := range c.Sources {
		if s.Path == "" {
			add(fmt.Sprintf("sources[%d].path", i), "must not be empty", nil)
		}
		if s.Rank < 0 {
			add(fmt.Sprintf("sources[%d].rank", i), "must not be negative", s.Rank)
		}
	}
	if c.SequenceTimeout < 0 {
		add("sequence_timeout", "must not be negative", c.SequenceTimeout)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level", err.Error(), nil)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		add("log.format", err.Error(), nil)
	}

	return errors.Join(errs...)
}

// Snapshot returns the active snapshot the machine starts with.
func (c *Config) Snapshot() machine.Snapshot {
	return machine.Snapshot{
		Contexts: append([]string(nil), c.Contexts...),
		Scheme:   c.Scheme,
		Platform: c.Platform,
		Locale:   c.Locale,
	}
}

// HandlerConfig returns the press handler settings.
func (c *Config) HandlerConfig() input.Config {
	cfg := input.DefaultConfig()
	cfg.SequenceTimeout = c.SequenceTimeout
	return cfg
}

// LoggingConfig returns the logger settings. Validate has already
// rejected unknown values, so parse failures fall back to defaults.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		cfg.Level = level
	}
	if format, err := logging.ParseFormat(c.Log.Format); err == nil {
		cfg.Format = format
	}
	return cfg
}
