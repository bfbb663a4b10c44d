package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is the pagelang release version.
const version = "0.2.0"

// getVersion returns the version string shown by --version.
func getVersion() string {
	return version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pagelang version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pagelang %s\n", getVersion())
		},
	}
}
