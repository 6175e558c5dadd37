// Package commands implements the CLI commands for the stratumd build daemon.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/stratum/internal/adapters/server"
	"go.trai.ch/stratum/internal/app"
	"go.trai.ch/stratum/internal/build"
	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
)

// CLI represents the command line interface for stratumd.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, projectDir string, req domain.BuildRequest) (*domain.Result, error)
	Serve(ctx context.Context, projectDir string, opts app.ServeOptions) error
	Watch(ctx context.Context, projectDir string, req domain.BuildRequest) error
	Clean(ctx context.Context, projectDir string, opts app.CleanOptions) error
	Request(ctx context.Context, projectDir, addr string, req domain.BuildRequest) (*server.Response, error)
}

// New creates a new CLI instance with the given app. The logger is switched to JSON
// output by --json when it supports it.
func New(a Application, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "stratumd",
		Short:         "Build orchestrator for the stratum-ui library",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("project", "C", ".", "Project directory to search for "+domain.ConfigFileName)
	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		jsonLogs, _ := cmd.Flags().GetBool("json")
		if l, ok := c.logger.(interface{ SetJSON(bool) }); ok && jsonLogs {
			l.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newRequestCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func projectDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("project")
	return dir
}
