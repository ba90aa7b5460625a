package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "chequer",
	Short:         "chequer event bus CLI",
	Long:          "chequer is an in-process publish/subscribe bus with ordered re-entrant dispatch.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(soakCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configShowCmd)
}
