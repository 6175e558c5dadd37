package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/stratum/internal/app"
	"go.trai.ch/stratum/internal/core/domain"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build directories and toolchain caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targets, _ := cmd.Flags().GetStringSlice("target")
			tools, _ := cmd.Flags().GetBool("tools")
			all, _ := cmd.Flags().GetBool("all")

			var opts app.CleanOptions
			switch {
			case all:
				opts.Targets = domain.Targets
				opts.Tools = true
			case len(targets) > 0:
				for _, raw := range targets {
					target, err := domain.ParseTarget(raw)
					if err != nil {
						return err
					}
					opts.Targets = append(opts.Targets, target)
				}
				opts.Tools = tools
			case tools:
				opts.Tools = true
			default:
				// Default behavior: clean every build directory
				opts.Targets = domain.Targets
			}

			return c.app.Clean(cmd.Context(), projectDir(cmd), opts)
		},
	}

	cmd.Flags().StringSliceP("target", "t", nil, "Only clean the build directory of these targets")
	cmd.Flags().Bool("tools", false, "Clean the captured toolchain environments")
	cmd.Flags().BoolP("all", "a", false, "Clean every build directory and the toolchain environments")

	return cmd
}
