package schema

import "github.com/spf13/cobra"

func Apply(rootCmd *cobra.Command) {
	rootCmd.AddCommand(astCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(depsCmd)
}
