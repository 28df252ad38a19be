// Package config loads aitags settings from defaults, a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/praetorian-inc/aitags/pkg/expiry"
	"github.com/praetorian-inc/aitags/pkg/scanner"
)

// FileName is the project config file looked up in the working directory.
const FileName = ".aitags.yaml"

// EnvPrefix prefixes environment overrides, e.g. AITAGS_EXPIRY_GRACEDAYS.
const EnvPrefix = "AITAGS"

// WorkspaceConfig lists the workspace folders paths are sandboxed to.
// When empty, the enclosing git repository is used.
type WorkspaceConfig struct {
	Folders []string `json:"folders" yaml:"folders" mapstructure:"folders"`
}

// Config is the effective configuration.
type Config struct {
	Expiry    expiry.Config      `json:"expiry" yaml:"expiry" mapstructure:"expiry"`
	Sync      scanner.SyncConfig `json:"sync" yaml:"sync" mapstructure:"sync"`
	Scan      scanner.WalkConfig `json:"scan" yaml:"scan" mapstructure:"scan"`
	Workspace WorkspaceConfig    `json:"workspace" yaml:"workspace" mapstructure:"workspace"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Expiry: expiry.DefaultConfig(),
		Sync:   scanner.DefaultSyncConfig(),
		Scan:   scanner.DefaultWalkConfig(),
	}
}

// Scanner returns the per-document diagnostic settings.
func (c *Config) Scanner() scanner.Config {
	return scanner.Config{Expiry: c.Expiry, Sync: c.Sync}
}

// LoadOptions control where Load looks for a config file.
type LoadOptions struct {
	// File is an explicit config file. It must exist.
	File string
	// Dir is searched for FileName when File is empty. Defaults to the
	// working directory.
	Dir string
}

// Load builds the effective configuration.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := configPath(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	// The raw value may be any YAML scalar; normalize before decoding.
	v.Set("expiry.graceDays", ClampGraceDays(v.Get("expiry.graceDays")))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// ConfigFileUsed reports the file Load would read for opts, or "".
func ConfigFileUsed(opts LoadOptions) string {
	path, _ := configPath(opts)
	return path
}

func configPath(opts LoadOptions) (string, error) {
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return "", fmt.Errorf("config file %s: %w", opts.File, err)
		}
		return opts.File, nil
	}

	dir := opts.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", nil
		}
		dir = cwd
	}

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("config file %s: %w", path, err)
	}
	return path, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("expiry.enabled", d.Expiry.Enabled)
	v.SetDefault("expiry.warnOnInvalid", d.Expiry.WarnOnInvalid)
	v.SetDefault("expiry.graceDays", d.Expiry.GraceDays)
	v.SetDefault("sync.enabled", d.Sync.Enabled)
	v.SetDefault("sync.warnOnMissing", d.Sync.WarnOnMissing)
	v.SetDefault("sync.checkSymbols", d.Sync.CheckSymbols)
	v.SetDefault("scan.maxFileSize", d.Scan.MaxFileSize)
	v.SetDefault("scan.exclude", d.Scan.Exclude)
	v.SetDefault("scan.includeHidden", d.Scan.IncludeHidden)
	v.SetDefault("workspace.folders", []string{})
}

// ClampGraceDays normalizes a raw grace-day value. Non-numeric values fall
// back to the default, negatives become 0 and fractions are floored.
func ClampGraceDays(raw any) int {
	def := expiry.DefaultConfig().GraceDays

	var f float64
	switch v := raw.(type) {
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	if f < 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(f))
}

// Dump renders cfg as YAML.
func Dump(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
