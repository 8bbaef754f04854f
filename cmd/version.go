package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dbiso",
	Long:  `All software has versions. This is dbiso's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("dbiso v0.1.0")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
