package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/chequer/config"
)

// chequer config:show
var configShowCmd = &cobra.Command{
	Use:   "config:show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.Settings()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE")
		fmt.Fprintln(w, "---\t-----")
		fmt.Fprintf(w, "APP_ENV\t%s\n", v.AppEnv)
		fmt.Fprintf(w, "LOG_LEVEL\t%s\n", v.LogLevel)
		fmt.Fprintf(w, "EVENT_MODE\t%s\n", v.EventMode)
		fmt.Fprintf(w, "EVENT_ON_ERROR\t%s\n", v.EventOnError)
		fmt.Fprintf(w, "METRICS_ADDR\t%s\n", v.MetricsAddr)
		if ferr := w.Flush(); ferr != nil {
			return ferr
		}
		return err
	},
}
