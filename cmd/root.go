package cmd

import (
	"fmt"
	"os"

	"fortio.org/log"
	"github.com/alexanderritik/dbiso/internal/config"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "dbiso",
	Short: "A graph-based database CLI",
	Long:  `dbiso analyzes a database schema's dependency graph and matches structural patterns against it with subgraph isomorphism.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLogLevel(log.Debug)
		}
	},
}

// Execute executes the root command
func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

// ensureDBConnection resolves the --db connection string a command should
// use: the flag if the caller passed one, otherwise the configured
// default (config file or DBISO_DATABASE_URL). Exits the process if
// neither is available, matching every command's existing validation
// style.
func ensureDBConnection() {
	if dbUrl != "" {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Println("Error: --db flag is required (or set database_url in dbiso.yaml / DBISO_DATABASE_URL)")
		os.Exit(1)
	}
	dbUrl = cfg.DatabaseURL
}
