// Package cli implements the dogpic command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// NewRootCmd returns the dogpic command. Without sub-command it behaves like "dogpic run".
func NewRootCmd() *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:           "dogpic",
		Short:         "Fetch a random dog picture for the breed in dog.txt",
		Long:          `dogpic reads a breed from dog.txt, fetches a random image URL for it from dog.ceo and writes the URL to dog-img.txt.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, flags)
		},
	}
	flags.register(rootCmd)

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dogpic %s\n", Version)
		},
	})

	return rootCmd
}

// Execute runs the dogpic command. Errors the pipeline already logged are not printed again.
func Execute() error {
	return execute(NewRootCmd())
}

func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil && !isLogged(err) {
		cmd.PrintErrln("Error:", err)
	}

	return err
}
