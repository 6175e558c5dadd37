package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/stratum/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the library once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := buildRequest(cmd)
			if err != nil {
				return err
			}
			_, err = c.app.Build(cmd.Context(), projectDir(cmd), req)
			return err
		},
	}
	addBuildFlags(cmd)
	return cmd
}

// addBuildFlags registers the flags that describe one build request.
func addBuildFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("dynamic", false, "Build a shared library instead of a static archive")
	flags.BoolP("no-cache", "n", false, "Regenerate assets and reconfigure from a clean build directory")
	flags.StringP("target", "t", string(domain.TargetDesktop), "Build target: desktop or firmware")
	flags.Bool("release", false, "Build with the Release build type")
	flags.StringP("output-name", "o", domain.DefaultOutputName, "Base name of the produced library")
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "nocache" {
			name = "no-cache"
		}
		return pflag.NormalizedName(name)
	})
}

// buildRequest reads the build flags of cmd into a validated request.
func buildRequest(cmd *cobra.Command) (domain.BuildRequest, error) {
	flags := cmd.Flags()
	dynamic, _ := flags.GetBool("dynamic")
	noCache, _ := flags.GetBool("no-cache")
	release, _ := flags.GetBool("release")
	outputName, _ := flags.GetString("output-name")
	rawTarget, _ := flags.GetString("target")

	target, err := domain.ParseTarget(rawTarget)
	if err != nil {
		return domain.BuildRequest{}, err
	}

	req := domain.BuildRequest{
		Dynamic:    dynamic,
		NoCache:    noCache,
		Target:     target,
		Release:    release,
		OutputName: strings.TrimSpace(outputName),
	}.Normalize()
	if err := req.Validate(); err != nil {
		return domain.BuildRequest{}, err
	}
	return req, nil
}
