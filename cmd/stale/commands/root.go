// Package commands implements the CLI commands for stale.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/stale/internal/app"
	"go.trai.ch/stale/internal/build"
	"go.trai.ch/stale/internal/core/domain"
)

// CLI represents the command line interface for stale.
type CLI struct {
	app     Application
	log     LogSettings
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Check(ctx context.Context, opts app.CheckOptions) ([]domain.Verdict, error)
	Resolve(template domain.Template, source string, overrides domain.Overrides) (string, error)
	Summary() (domain.RunSummary, bool)
}

// LogSettings is implemented by loggers whose format and verbosity can change at runtime.
type LogSettings interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// New creates a new CLI instance with the given app. log may be nil.
func New(a Application, log LogSettings) *CLI {
	rootCmd := &cobra.Command{
		Use:           "stale",
		Short:         "Tell incremental builds which compiled artifacts are out of date",
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

	rootCmd.PersistentFlags().StringP("config", "c", ".",
		"Path to "+domain.ConfigFileName+", or a directory to search upwards from")
	rootCmd.PersistentFlags().Bool("json", false, "Write logs and results as JSON")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log debug messages")

	c := &CLI{
		app:     a,
		log:     log,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		c.configureLogging(cmd)
	}

	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newResolveCmd())
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

func (c *CLI) configureLogging(cmd *cobra.Command) {
	if c.log == nil {
		return
	}
	jsonMode, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")
	c.log.SetJSON(jsonMode)
	c.log.SetVerbose(verbose)
}
