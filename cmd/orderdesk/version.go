// Version command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/orderdesk/pkg/orderdesk"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the orderdesk version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("orderdesk", orderdesk.Version)
	},
}
