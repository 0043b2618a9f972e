// Init command: materialize the config directory and the data directory
// so later commands start from a known layout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration and data directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return fmt.Errorf("ensure data dir: %w", err)
		}
		fmt.Printf("config dir: %s\n", resolveConfigDir())
		fmt.Printf("data dir:   %s\n", cfg.DataDir)
		return nil
	},
}
