// Package commands implements the lc-useradm CLI: cobra subcommands
// over the account/credential store packages, grounded on the
// teacher's cmd/dfsctl command-tree shape (persistent --config flag,
// PersistentPreRunE bootstrap, package-level rootCmd/Execute).
package commands

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lc-login/lc-login/internal/cli/prompt"
	"github.com/lc-login/lc-login/internal/logger"
	"github.com/lc-login/lc-login/pkg/account"
	"github.com/lc-login/lc-login/pkg/config"
	"github.com/lc-login/lc-login/pkg/group"
	"github.com/lc-login/lc-login/pkg/metrics"
	"github.com/lc-login/lc-login/pkg/transaction"
	"github.com/lc-login/lc-login/pkg/verify"
)

// Version information injected at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var cfgFile string

// cfg, accounts, and groups are populated once in PersistentPreRunE and
// read by every subcommand. There is no mutex: cobra runs a single
// command per process invocation.
var (
	cfg      *config.Config
	accounts *account.Store
	groups   *group.Store
)

var rootCmd = &cobra.Command{
	Use:   "lc-useradm",
	Short: "Administer lc-login account and credential stores",
	Long: `lc-useradm operates directly on the USERS_ROOT/GROUPS_ROOT symlink
graph and password files lc-login's libraries read: setting, expiring,
disabling, and removing credentials, and inspecting account records.

Use "lc-useradm [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded

		if err := logger.Init(logger.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cfg.Logging.Output,
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		resolver := cfg.Resolver()
		accounts = account.NewStore(resolver)
		groups = group.NewStore(resolver)

		if cfg.Metrics.Enabled {
			reg := metrics.NewRegistry()
			reg.MustRegister(prometheus.DefaultRegisterer)
			transaction.SetMetrics(reg)
			verify.SetMetrics(reg)
			go serveMetrics(cfg.Metrics.Addr)
		}
		return nil
	},
}

// Execute runs the root command. Called once from main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/lc-useradm/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(expireCmd)
	rootCmd.AddCommand(unexpireCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// HandleAbort turns a prompt.ErrAborted into a clean "Aborted." message
// and a nil error, so a Ctrl+C during an interactive prompt doesn't
// print a stack-shaped error.
func HandleAbort(err error) error {
	if prompt.IsAborted(err) {
		fmt.Println("\nAborted.")
		return nil
	}
	return err
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("metrics server listening", logger.Path(addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", logger.Err(err))
	}
}
