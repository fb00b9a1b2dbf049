package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lc-login/lc-login/internal/cli/output"
	"github.com/lc-login/lc-login/pkg/credential"
	"github.com/lc-login/lc-login/pkg/verify"
)

var showCmd = &cobra.Command{
	Use:   "show <account>",
	Short: "Show an account's identity and credential status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := resolveAccount(args[0])
		if err != nil {
			return err
		}

		pairs := [][2]string{{"path", h.Path()}}
		addField(&pairs, "name", h.Name)
		addUintField(&pairs, "uid", h.UID)
		addField(&pairs, "home", h.Home)
		addField(&pairs, "shell", h.Shell)
		addField(&pairs, "root", h.Root)
		addUintField(&pairs, "primary_group", h.PrimaryGroup)

		if secondary, serr := h.SecondaryGroups(); serr == nil && len(secondary) > 0 {
			pairs = append(pairs, [2]string{"secondary_groups", formatGIDs(secondary)})
		}

		pairs = append(pairs, [2]string{"has_password", strconv.FormatBool(h.HasPassword())})
		if h.HasPassword() {
			appendCredentialFields(&pairs, h.PasswordPath())
		}

		return output.SimpleTable(os.Stdout, pairs)
	},
}

func addField(pairs *[][2]string, key string, fn func() (string, error)) {
	if v, err := fn(); err == nil {
		*pairs = append(*pairs, [2]string{key, v})
	}
}

func addUintField(pairs *[][2]string, key string, fn func() (uint32, error)) {
	if v, err := fn(); err == nil {
		*pairs = append(*pairs, [2]string{key, strconv.FormatUint(uint64(v), 10)})
	}
}

func formatGIDs(gids []uint32) string {
	s := ""
	for i, g := range gids {
		if i > 0 {
			s += ","
		}
		s += strconv.FormatUint(uint64(g), 10)
	}
	return s
}

func appendCredentialFields(pairs *[][2]string, path string) {
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	rec, err := credential.DecodeRecord(b)
	if err != nil {
		*pairs = append(*pairs, [2]string{"credential_error", err.Error()})
		return
	}
	if rec.Header.Disabled() {
		*pairs = append(*pairs, [2]string{"credential_status", "disabled"})
		return
	}
	*pairs = append(*pairs, [2]string{"algorithm", credential.AlgorithmName(rec.Header.Algorithm)})
	if verify.Expired(rec.Header) {
		*pairs = append(*pairs, [2]string{"credential_status", "expired"})
	} else {
		*pairs = append(*pairs, [2]string{"credential_status", "active"})
	}
	if rec.Header.ExpirySeconds != 0 {
		*pairs = append(*pairs, [2]string{"expires_at", time.Unix(int64(rec.Header.ExpirySeconds), 0).Format(time.RFC3339)})
	} else {
		*pairs = append(*pairs, [2]string{"expires_at", "never"})
	}
}
