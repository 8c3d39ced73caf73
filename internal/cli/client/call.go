package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// CallCmd returns the call command
func CallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke a tool on a running server",
		Long:  "Invoke a named tool. Arguments are passed as --arg key=value; values that parse as JSON are sent typed",
		Args:  cobra.ExactArgs(1),
		RunE:  runCall,
	}
	cmd.Flags().String("api-url", "", "Base URL of the server")
	cmd.Flags().StringArray("arg", nil, "Tool argument as key=value (repeatable)")
	return cmd
}

func runCall(cmd *cobra.Command, args []string) error {
	c, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	rawArgs, _ := cmd.Flags().GetStringArray("arg")
	arguments, err := parseArgs(rawArgs)
	if err != nil {
		return err
	}

	text, err := c.CallTool(args[0], arguments)
	if err != nil {
		return fmt.Errorf("calling tool %q: %w", args[0], err)
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, []byte(text), "", "  ") == nil {
		cmd.Println(pretty.String())
	} else {
		cmd.Println(text)
	}
	return nil
}

func parseArgs(pairs []string) (map[string]any, error) {
	arguments := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid argument %q (expected key=value)", pair)
		}

		var typed any
		if err := json.Unmarshal([]byte(value), &typed); err == nil {
			arguments[key] = typed
		} else {
			arguments[key] = value
		}
	}
	return arguments, nil
}
