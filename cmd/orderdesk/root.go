// Root command for the orderdesk CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/orderdesk/pkg/orderdesk"
)

// Global flag values.
var (
	flagConfigDir  string
	flagDataDir    string
	flagListenAddr string
)

var rootCmd = &cobra.Command{
	Use:   "orderdesk",
	Short: "Orderdesk is an entity synchronization service",
	Long: `Orderdesk serves a small relational dataset (states, customers,
products, invoices, invoice line items) over a REST API that preserves
referential integrity and detects conflicting writes.`,
	Version: orderdesk.Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.orderdesk)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.orderdesk-db)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
}
