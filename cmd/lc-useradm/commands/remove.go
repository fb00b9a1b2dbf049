package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lc-login/lc-login/internal/cli/prompt"
	"github.com/lc-login/lc-login/pkg/transaction"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "delpasswd <account>",
	Short: "Delete an account's password file, leaving no credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := prompt.ConfirmWithForce(fmt.Sprintf("Remove password for %s? This cannot be undone.", args[0]), removeForce)
		if err != nil {
			return HandleAbort(err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
		h, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		if err := transaction.RemovePassword(h); err != nil {
			return fmt.Errorf("failed to remove password: %w", err)
		}
		fmt.Printf("Password removed for %s\n", args[0])
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip the confirmation prompt")
}
