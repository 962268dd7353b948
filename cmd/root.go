package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mams",
	Short: "Military asset management service",
	Long:  `MAMS tracks purchases, transfers, assignments and expenditures of military assets across bases and serves a reconciled balance dashboard`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
