package advisorcmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Bank product advisory pipeline with compliance control",
}

func init() {
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newAgentsCommand())
}

func Execute() error {
	return rootCmd.Execute()
}
