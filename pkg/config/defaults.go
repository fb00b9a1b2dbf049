package config

// ApplyDefaults fills in any zero-valued configuration fields with
// sensible built-in defaults. Explicit values (from a config file or
// an environment override) are always preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)

	if cfg.UsersRoot == "" {
		cfg.UsersRoot = defaultUsersRoot
	}
	if cfg.GroupsRoot == "" {
		cfg.GroupsRoot = defaultGroupsRoot
	}
	if cfg.SysConfDir == "" {
		cfg.SysConfDir = defaultSysConfDir
	}
	if cfg.PasswdPath == "" {
		cfg.PasswdPath = defaultPasswdPath
	}
	if cfg.ShadowPath == "" {
		cfg.ShadowPath = defaultShadowPath
	}
	if cfg.GroupPath == "" {
		cfg.GroupPath = defaultGroupPath
	}
	if cfg.GshadowPath == "" {
		cfg.GshadowPath = defaultGshadowPath
	}
	if cfg.SudoersPath == "" {
		cfg.SudoersPath = defaultSudoersPath
	}
}

// Default on-disk roots. These mirror spec.md §3.1's stated defaults
// (USERS_ROOT=/etc/users, GROUPS_ROOT=/etc/groups) and the
// conventional sysconfdir/legacy-file locations the original crate's
// build.rs falls back to absent an environment override.
const (
	defaultUsersRoot   = "/etc/users"
	defaultGroupsRoot  = "/etc/groups"
	defaultSysConfDir  = "/etc"
	defaultPasswdPath  = "/etc/passwd"
	defaultShadowPath  = "/etc/shadow"
	defaultGroupPath   = "/etc/group"
	defaultGshadowPath = "/etc/gshadow"
	defaultSudoersPath = "/etc/sudoers"
)

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Addr == "" {
		cfg.Addr = ":9090"
	}
}

// DefaultConfig returns a fully populated Config using only built-in
// defaults — no file, no environment.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
