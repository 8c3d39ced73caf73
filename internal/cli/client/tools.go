package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// ToolsCmd returns the tools command
func ToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools exposed by a running server",
		RunE:  runTools,
	}
	cmd.Flags().String("api-url", "", "Base URL of the server")
	return cmd
}

func runTools(cmd *cobra.Command, args []string) error {
	c, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	result, err := c.Call("list_tools", nil)
	if err != nil {
		return fmt.Errorf("listing tools: %w", err)
	}

	var payload struct {
		Tools   []string `json:"tools"`
		Details []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Module      string `json:"module"`
		} `json:"details"`
	}
	if err := json.Unmarshal(result, &payload); err != nil {
		return fmt.Errorf("parsing tool list: %w", err)
	}

	for _, d := range payload.Details {
		cmd.Printf("%-28s %-14s %s\n", d.Name, d.Module, d.Description)
	}
	return nil
}
