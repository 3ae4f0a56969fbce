package main

import (
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "livefeed",
		Short: "Real-time message feed server",
		Long: `livefeed keeps a bounded backlog of recent messages and streams them,
followed by live ones, to every connected client over Server-Sent Events
or WebSocket. A built-in generator publishes a synthetic message on a
fixed interval.

Configuration is read from the environment (and a .env file when present);
command-line flags override it.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
