package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lc-login/lc-login/internal/cli/prompt"
	"github.com/lc-login/lc-login/pkg/credential"
	"github.com/lc-login/lc-login/pkg/transaction"
)

const minPasswordLength = 8

var passwdCmd = &cobra.Command{
	Use:   "passwd <account>",
	Short: "Set an account's password",
	Long: `Set an account's password (admin operation).

account is either a numeric uid or a name resolvable under USERS_ROOT.

With a terminal attached, passwd prompts twice for the new password.
With stdin piped from a non-terminal, it reads a single line instead,
so the password can be supplied non-interactively:

  echo "s3cr3t" | lc-useradm passwd alice`,
	Args: cobra.ExactArgs(1),
	RunE: runPasswd,
}

func readPassword() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return prompt.NewPassword(minPasswordLength)
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runPasswd(cmd *cobra.Command, args []string) error {
	h, err := resolveAccount(args[0])
	if err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return HandleAbort(err)
	}

	header := credential.ResolveDefaultHeader(cfg.AuthTemplatePath())
	if err := transaction.SetPassword(h, []byte(password), header); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}

	fmt.Printf("Password set for %s\n", args[0])
	return nil
}
