package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Ask a running build server for a build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := buildRequest(cmd)
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			_, err = c.app.Request(cmd.Context(), projectDir(cmd), addr, req)
			return err
		},
	}
	addBuildFlags(cmd)
	cmd.Flags().String("addr", "", "Build server address (default from server.addr)")
	return cmd
}
