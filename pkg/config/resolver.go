package config

import "github.com/lc-login/lc-login/pkg/paths"

// Resolver builds the *paths.Resolver the core store packages operate
// over from this Config's resolved roots. Computed eagerly once at
// startup (main calls this right after Load), never lazily — there is
// no package-level singleton.
func (c *Config) Resolver() *paths.Resolver {
	return paths.NewResolver(c.UsersRoot, c.GroupsRoot, c.SysConfDir)
}
