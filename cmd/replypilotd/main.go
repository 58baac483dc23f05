package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/replypilot/internal/cli"
	"github.com/cloo-solutions/replypilot/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "replypilotd",
		Short: "ReplyPilot daemon and CLI",
		Long:  "ReplyPilot daemon for serving the reply assistant API and syncing support tickets into the knowledge base",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.SyncCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
