package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lc-login/lc-login/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample lc-useradm configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		var err error
		if cfgFile != "" {
			err = config.InitConfigToPath(cfgFile, initForce)
			path = cfgFile
		} else {
			path, err = config.InitConfig(initForce)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Configuration file created at: %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
}
