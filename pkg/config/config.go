// Package config loads the ambient configuration for lc-useradm: the
// resolved USERS_ROOT/GROUPS_ROOT/SYSCONFDIR roots pkg/paths needs,
// plus logging and metrics knobs for the CLI itself. The account and
// credential store packages (pkg/account, pkg/credential, pkg/hash,
// pkg/transaction, pkg/verify) never import this package — they take
// an already-resolved *paths.Resolver — so this is purely the
// entrypoint-side wiring, grounded on the teacher's pkg/config
// (viper + mapstructure + go-playground/validator layering).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the resolved, validated configuration lc-useradm runs
// with. Configuration precedence (highest to lowest):
//  1. Environment variables — the bare names spec.md §6 lists
//     (users, groups, passwd, shadow, group, gshadow, sudoers,
//     sysconfdir), matching the original crate's build.rs/read_env
//     convention, not a project-prefixed scheme.
//  2. Configuration file (YAML or TOML)
//  3. Built-in defaults
type Config struct {
	// Logging controls lc-useradm's own log output. Not consumed by
	// the core store packages.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Metrics controls the optional /metrics HTTP endpoint lc-useradm
	// can serve.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// UsersRoot is USERS_ROOT: the directory containing one
	// subdirectory per account, keyed by decimal uid.
	UsersRoot string `mapstructure:"users_root" yaml:"users_root" validate:"required"`

	// GroupsRoot is GROUPS_ROOT: the mirror-shaped directory for groups.
	GroupsRoot string `mapstructure:"groups_root" yaml:"groups_root" validate:"required"`

	// SysConfDir is SYSCONFDIR, the directory the site-wide
	// authtemplate file lives under.
	SysConfDir string `mapstructure:"sysconfdir" yaml:"sysconfdir" validate:"required"`

	// The following are recorded for forward compatibility with the
	// out-of-scope login/passwd/su/group-admin front-ends (spec.md §6:
	// "Only users, groups, and sysconfdir/authtemplate are consumed by
	// the core") — this module never reads them itself.
	PasswdPath  string `mapstructure:"passwd" yaml:"passwd,omitempty"`
	ShadowPath  string `mapstructure:"shadow" yaml:"shadow,omitempty"`
	GroupPath   string `mapstructure:"group" yaml:"group,omitempty"`
	GshadowPath string `mapstructure:"gshadow" yaml:"gshadow,omitempty"`
	SudoersPath string `mapstructure:"sudoers" yaml:"sudoers,omitempty"`
}

// LoggingConfig controls internal/logger's behavior for the CLI process.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format is the log encoding: text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is stdout, stderr, or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// MetricsConfig controls the optional Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled controls whether lc-useradm serves /metrics at all.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Addr is the listen address for the metrics HTTP server, e.g. ":9090".
	Addr string `mapstructure:"addr" validate:"required_if=Enabled true" yaml:"addr,omitempty"`
}

// AuthTemplatePath returns the path to the site-wide authtemplate file.
func (c *Config) AuthTemplatePath() string {
	return filepath.Join(c.SysConfDir, "authtemplate")
}

// Load reads configuration from configPath (or the default location if
// empty), layering environment variables and built-in defaults, and
// validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if found {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	applyEnvOverrides(cfg)
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// MustLoad loads configuration with a user-facing error message when
// an explicitly named config file is missing.
func MustLoad(configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
	}
	return Load(configPath)
}

// SaveConfig writes cfg to path in YAML form, mode 0600 since it may
// carry site-specific paths an operator wants kept off a shared umask.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setupViper wires config-file discovery. Environment overrides for
// the spec-mandated fields are applied separately (applyEnvOverrides)
// since they use bare names, not a project-prefixed AutomaticEnv scheme.
func setupViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// applyEnvOverrides applies the bare spec.md §6 environment variables
// directly over whatever the config file or defaults produced — these
// take the highest precedence of any source, matching the original
// crate's build.rs/read_env convention (no project prefix).
func applyEnvOverrides(cfg *Config) {
	if s, ok := os.LookupEnv("users"); ok {
		cfg.UsersRoot = s
	}
	if s, ok := os.LookupEnv("groups"); ok {
		cfg.GroupsRoot = s
	}
	if s, ok := os.LookupEnv("sysconfdir"); ok {
		cfg.SysConfDir = s
	}
	if s, ok := os.LookupEnv("passwd"); ok {
		cfg.PasswdPath = s
	}
	if s, ok := os.LookupEnv("shadow"); ok {
		cfg.ShadowPath = s
	}
	if s, ok := os.LookupEnv("group"); ok {
		cfg.GroupPath = s
	}
	if s, ok := os.LookupEnv("gshadow"); ok {
		cfg.GshadowPath = s
	}
	if s, ok := os.LookupEnv("sudoers"); ok {
		cfg.SudoersPath = s
	}
}

// readConfigFile reads the configuration file if present. A missing
// file is not an error: the caller falls back to defaults.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if strings.Contains(err.Error(), "no such file or directory") {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// Validate runs struct-tag validation over cfg using go-playground/validator,
// the same library the teacher's pkg/config.Validate uses.
func Validate(cfg *Config) error {
	return validator.New().Struct(cfg)
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lc-useradm")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/lc-useradm"
	}
	return filepath.Join(home, ".config", "lc-useradm")
}

// GetDefaultConfigPath returns the default config.yaml location.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default path.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}
