package main

import (
	"github.com/amonks/tix/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the ticket tools over MCP on stdio",
	Long: `Serve the ticket tools to a Model Context Protocol client over
stdin/stdout. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}

	logger.Debug("serving mcp", "store", a.store.Path())
	srv := mcpserver.New(a.svc, mcpserver.Options{
		Version: buildVersion,
		Logger:  logger,
	})
	return srv.ServeStdio()
}
