package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hrygo/homebox/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			fmt.Println(version.StringFull())
			return
		}
		fmt.Println(version.String())
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "print commit and build time")
}
