package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the library whenever sources change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := buildRequest(cmd)
			if err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), projectDir(cmd), req)
		},
	}
	addBuildFlags(cmd)
	return cmd
}
