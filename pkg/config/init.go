package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// configTemplate is the commented YAML skeleton InitConfig writes out for
// an operator to fill in, grounded on the teacher's own init-config
// template (same comment-header-then-sectioned-YAML shape).
const configTemplate = `# lc-useradm Configuration File
#
# Environment variables, when set, always override the values below:
# users, groups, sysconfdir, passwd, shadow, group, gshadow, sudoers.

logging:
  level: "INFO"
  format: "text"
  output: "stdout"

metrics:
  enabled: false
  addr: ":9090"

users_root: "/etc/users"
groups_root: "/etc/groups"
sysconfdir: "/etc"

passwd: "/etc/passwd"
shadow: "/etc/shadow"
group: "/etc/group"
gshadow: "/etc/gshadow"
sudoers: "/etc/sudoers"
`

// InitConfig writes a fresh config.yaml at the default location, refusing
// to overwrite an existing file unless force is set. Returns the path
// written.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a fresh config.yaml at an explicit path.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
