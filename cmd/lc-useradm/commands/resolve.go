package commands

import (
	"strconv"

	"github.com/lc-login/lc-login/pkg/account"
)

// resolveAccount accepts either a decimal uid or an account name and
// returns the bound Handle, matching the teacher's convention of
// taking a single positional <username> argument that may also be
// numeric in su/passwd-style tools.
func resolveAccount(ref string) (account.Handle, error) {
	if uid, err := strconv.ParseUint(ref, 10, 32); err == nil {
		return accounts.ByUID(uint32(uid)), nil
	}
	return accounts.ByName(ref)
}
