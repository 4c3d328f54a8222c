package dev

import "github.com/spf13/cobra"

// DevCmd groups local development helpers.
var DevCmd = &cobra.Command{
	Use:   "dev",
	Short: "Local development helpers",
}

func init() {
	DevCmd.AddCommand(fakeServerCmd)
}
