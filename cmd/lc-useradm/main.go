package main

import (
	"fmt"
	"os"

	"github.com/lc-login/lc-login/cmd/lc-useradm/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
