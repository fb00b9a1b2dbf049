package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lc-login/lc-login/pkg/transaction"
)

var expireCmd = &cobra.Command{
	Use:   "expire <account>",
	Short: "Force an account's password to expire immediately",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		if err := transaction.ExpirePassword(h, time.Time{}); err != nil {
			return fmt.Errorf("failed to expire password: %w", err)
		}
		fmt.Printf("Password expired for %s\n", args[0])
		return nil
	},
}

var unexpireCmd = &cobra.Command{
	Use:   "unexpire <account>",
	Short: "Clear an account's password expiry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		if err := transaction.UnexpirePassword(h); err != nil {
			return fmt.Errorf("failed to clear expiry: %w", err)
		}
		fmt.Printf("Password expiry cleared for %s\n", args[0])
		return nil
	},
}
