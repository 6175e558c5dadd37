package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/stratum/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve build requests over TCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
			return c.app.Serve(cmd.Context(), projectDir(cmd), app.ServeOptions{
				Addr:        addr,
				MetricsAddr: metricsAddr,
			})
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from server.addr)")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
	return cmd
}
