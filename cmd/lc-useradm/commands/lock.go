package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lc-login/lc-login/internal/cli/prompt"
	"github.com/lc-login/lc-login/pkg/transaction"
)

var lockForce bool

var lockCmd = &cobra.Command{
	Use:   "lock <account>",
	Short: "Disable an account's credential without discarding it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := prompt.ConfirmWithForce(fmt.Sprintf("Lock password for %s?", args[0]), lockForce)
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
		if err := transaction.DisablePassword(h); err != nil {
			return fmt.Errorf("failed to lock password: %w", err)
		}
		fmt.Printf("Password locked for %s\n", args[0])
		return nil
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <account>",
	Short: "Restore a credential previously locked with lock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		if err := transaction.EnablePassword(h); err != nil {
			return fmt.Errorf("failed to unlock password: %w", err)
		}
		fmt.Printf("Password unlocked for %s\n", args[0])
		return nil
	},
}

func init() {
	lockCmd.Flags().BoolVarP(&lockForce, "force", "f", false, "Skip the confirmation prompt")
}
