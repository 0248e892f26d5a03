package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Campuscal",
	Long:  `All software has versions. This is Campuscal's.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Campuscal %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
