package main

import (
	"fmt"
	"os"

	"github.com/ethograph/ethograph/internal/cli"
	"github.com/ethograph/ethograph/internal/cli/admin"
	"github.com/ethograph/ethograph/internal/cli/client"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ethographd",
		Short: "Ethograph daemon and CLI",
		Long:  "Ethograph daemon for serving the knowledge base protocol and maintaining its ontologies",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.CleanupCmd())
	rootCmd.AddCommand(admin.OntologyCmd())
	rootCmd.AddCommand(client.ToolsCmd())
	rootCmd.AddCommand(client.CallCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
