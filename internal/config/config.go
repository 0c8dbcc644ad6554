// Package config loads, validates and saves the virtlist configuration file.
//
// Values are resolved in this order, later sources winning:
//  1. defaults from New
//  2. $VIRTLIST_HOME/config.yaml (or the --config path), merged per section
//  3. environment variables such as VIRTLIST_LOG_LEVEL
//  4. command-line flags
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/virtlist/internal/imaging"
	"github.com/rshade/virtlist/internal/logging"
	"github.com/rshade/virtlist/internal/records"
	"github.com/rshade/virtlist/internal/validate"
)

// Environment variables read by virtlist.
const (
	EnvHome      = "VIRTLIST_HOME"
	EnvLogLevel  = "VIRTLIST_LOG_LEVEL"
	EnvLogFormat = "VIRTLIST_LOG_FORMAT"
)

// CurrentVersion is the schema version written by Save.
const CurrentVersion = "1.0.0"

// supportedVersions is the schema range this build can read.
const supportedVersions = "^1.0.0"

// Backend names for ListConfig.Backend.
const (
	BackendTea   = "tea"
	BackendTcell = "tcell"
)

const (
	defaultItemHeight       = 1
	defaultThrottleMS       = 16
	defaultResizeDebounceMS = 100
	defaultMaxSizeMB        = 10
	defaultConcurrency      = 4
	maxItemHeight           = 100
	maxThrottleMS           = 1000
	maxConcurrency          = 64
)

// Sentinel errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrUnknownKey    = errors.New("unknown configuration key")
)

// Config is the full virtlist configuration.
type Config struct {
	Version string        `yaml:"version"`
	List    ListConfig    `yaml:"list"`
	Records RecordsConfig `yaml:"records"`
	Image   ImageConfig   `yaml:"image"`
	Logging LoggingConfig `yaml:"logging"`

	configPath string
}

// ListConfig controls the windowed list renderer and its hosts.
type ListConfig struct {
	ItemHeight        int    `yaml:"item_height"`
	ThrottleMS        int    `yaml:"throttle_ms"`
	RecomputeOnResize bool   `yaml:"recompute_on_resize"`
	Settle            bool   `yaml:"settle"`
	ErrorPolicy       string `yaml:"error_policy"`
	ResizeDebounceMS  int    `yaml:"resize_debounce_ms"`
	Backend           string `yaml:"backend"`
}

// RecordsConfig holds the field rules applied to loaded records.
type RecordsConfig struct {
	Rules records.Rules `yaml:"rules,omitempty"`
}

// ImageConfig controls `virtlist image shrink`.
type ImageConfig struct {
	MaxWidth     int      `yaml:"max_width"`
	Quality      int      `yaml:"quality"`
	MaxSizeMB    int      `yaml:"max_size_mb"`
	AllowedTypes []string `yaml:"allowed_types"`
	Concurrency  int      `yaml:"concurrency"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// New returns the default configuration merged with the config file under
// the config directory, if one exists. An unreadable file is ignored; use
// Load to see the error.
func New() *Config {
	cfg := Defaults()
	dir, err := GetConfigDir()
	if err != nil {
		return cfg
	}
	cfg.configPath = filepath.Join(dir, "config.yaml")
	if _, statErr := os.Stat(cfg.configPath); statErr == nil {
		_ = ShallowMergeYAML(cfg, cfg.configPath)
	}
	return cfg
}

// Load returns the defaults merged with the file at path. A missing file is
// an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	cfg.configPath = path
	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the built-in configuration with no file applied.
func Defaults() *Config {
	return &Config{
		Version: CurrentVersion,
		List: ListConfig{
			ItemHeight:       defaultItemHeight,
			ThrottleMS:       defaultThrottleMS,
			ErrorPolicy:      "abort",
			ResizeDebounceMS: defaultResizeDebounceMS,
			Backend:          BackendTea,
		},
		Records: RecordsConfig{},
		Image: ImageConfig{
			MaxWidth:     imaging.DefaultMaxWidth,
			Quality:      imaging.DefaultQuality,
			MaxSizeMB:    defaultMaxSizeMB,
			AllowedTypes: imaging.DefaultAllowedTypes(),
			Concurrency:  defaultConcurrency,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// ConfigPath returns the file this configuration is read from and saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the file used by Save.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, err)
	}
	return nil
}

// Validate reports every invalid setting, joined into one error.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if err := checkVersion(c.Version); err != nil {
		errs = append(errs, err)
	}

	l := c.List
	if !validate.InRange(l.ItemHeight, 1, maxItemHeight) {
		invalid("list.item_height must be between 1 and %d, got %d", maxItemHeight, l.ItemHeight)
	}
	if !validate.InRange(l.ThrottleMS, 0, maxThrottleMS) {
		invalid("list.throttle_ms must be between 0 and %d, got %d", maxThrottleMS, l.ThrottleMS)
	}
	if !validate.NonNegative(l.ResizeDebounceMS) {
		invalid("list.resize_debounce_ms must not be negative, got %d", l.ResizeDebounceMS)
	}
	if !validate.OneOf(l.ErrorPolicy, "abort", "skip") {
		invalid("list.error_policy must be abort or skip, got %q", l.ErrorPolicy)
	}
	if !validate.OneOf(l.Backend, BackendTea, BackendTcell) {
		invalid("list.backend must be %s or %s, got %q", BackendTea, BackendTcell, l.Backend)
	}

	if err := c.Records.Rules.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: records.rules: %w", ErrInvalidConfig, err))
	}

	img := c.Image
	if err := (imaging.Options{MaxWidth: img.MaxWidth, Quality: img.Quality}).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: image: %w", ErrInvalidConfig, err))
	}
	if !validate.NonNegative(img.MaxSizeMB) {
		invalid("image.max_size_mb must not be negative, got %d", img.MaxSizeMB)
	}
	if !validate.InRange(img.Concurrency, 1, maxConcurrency) {
		invalid("image.concurrency must be between 1 and %d, got %d", maxConcurrency, img.Concurrency)
	}
	for _, t := range img.AllowedTypes {
		if !strings.HasPrefix(t, "image/") {
			invalid("image.allowed_types entry %q is not an image MIME type", t)
		}
	}

	lg := c.Logging
	if !validate.OneOf(lg.Level, "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled") {
		invalid("logging.level %q is not a known level", lg.Level)
	}
	if !validate.OneOf(lg.Format, logging.FormatJSON, logging.FormatConsole, logging.FormatText) {
		invalid("logging.format must be json, console or text, got %q", lg.Format)
	}

	return errors.Join(errs...)
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: version %q: %w", ErrInvalidConfig, v, err)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(ver) {
		return fmt.Errorf("%w: version %s is not supported (want %s)", ErrInvalidConfig, ver, supportedVersions)
	}
	return nil
}

// ThrottleInterval returns list.throttle_ms as a duration.
func (l ListConfig) ThrottleInterval() time.Duration {
	return time.Duration(l.ThrottleMS) * time.Millisecond
}

// ResizeDebounce returns list.resize_debounce_ms as a duration.
func (l ListConfig) ResizeDebounce() time.Duration {
	return time.Duration(l.ResizeDebounceMS) * time.Millisecond
}

// MaxBytes returns image.max_size_mb in bytes; 0 means no limit.
func (i ImageConfig) MaxBytes() int64 {
	return int64(i.MaxSizeMB) << 20
}

// Get returns the value at a dotted key such as "list.item_height".
func (c *Config) Get(key string) (any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err = yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	var node any = tree
	for part := range strings.SplitSeq(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		if node, ok = m[part]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
	}
	return node, nil
}

// Keys returns the dotted names of every leaf setting, sorted.
func (c *Config) Keys() []string {
	data, _ := yaml.Marshal(c)
	var tree map[string]any
	_ = yaml.Unmarshal(data, &tree)

	var keys []string
	var walk func(prefix string, n any)
	walk = func(prefix string, n any) {
		m, ok := n.(map[string]any)
		if !ok {
			keys = append(keys, prefix)
			return
		}
		for k, v := range m {
			if prefix != "" {
				k = prefix + "." + k
			}
			walk(k, v)
		}
	}
	walk("", tree)
	slices.Sort(keys)
	return keys
}
