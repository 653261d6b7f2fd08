// speclint checks requirement documents and their test traceability.
//
// Usage:
//
//	speclint scan ./docs
//	speclint scan --print-config
//	speclint report --run run-<uuid>
//	speclint diff --base run-a --head run-b
//	speclint serve
//	speclint user add --username alice --password s3cretpw --role admin
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codewithboateng/speclint/internal/model"
	"github.com/codewithboateng/speclint/internal/shared"
	"github.com/codewithboateng/speclint/internal/storage"
)

// Exit codes.
const (
	exitFindings = 1
	exitConfig   = 2
)

var (
	configPath string
	dbPath     string
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func configError(err error) error { return &exitError{code: exitConfig, err: err} }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		code := 1
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
			if ee.err == nil {
				os.Exit(code)
			}
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(code)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "speclint",
		Short:         "Lint requirements and their test traceability",
		Version:       model.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or TOML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides database.dsn)")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(diffCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

// loadConfig resolves the configuration for root, applies --db and
// initialises the global logger.
func loadConfig(root string) (shared.Config, string, error) {
	cfg, src, err := shared.ResolveConfigForPath(root, configPath)
	if err != nil {
		return shared.Config{}, src, configError(err)
	}
	if dbPath != "" {
		cfg.Database.DSN = dbPath
	}
	if _, err := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level); err != nil {
		return shared.Config{}, src, configError(err)
	}
	zap.L().Debug("config resolved", zap.String("source", src))
	return cfg, src, nil
}

func openStore(cfg shared.Config) (*storage.DB, error) {
	db, err := storage.OpenSQLite(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", cfg.Database.DSN, err)
	}
	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("db schema: %w", err)
	}
	return db, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the speclint version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "speclint", model.Version)
		},
	}
}
