// fundwatch is the community-fund alerting daemon: it watches contribution
// activity against user-defined rules and delivers alerts and scheduled
// summaries over push, messenger, and webhook channels.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:           "fundwatch",
		Short:         "Community fund alerting and notification engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file (YAML)")
	root.AddCommand(serveCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
