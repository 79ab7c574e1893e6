// Package commands implements the CLI commands for the forge tool.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/build"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/engine/dispatcher"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for forge.
type CLI struct {
	app     Application
	logging LoggingConfigurer
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Describe(ctx context.Context, role string, opts app.DescribeOptions) (dispatcher.Plan, error)
	Solve(ctx context.Context, opts app.SolveOptions) (app.SolveReport, error)
	WarmShape(ctx context.Context, opts app.DescribeOptions) (int64, error)
	ListArtifacts(ctx context.Context) ([]domain.ArtifactManifest, error)
	Clean(ctx context.Context) error
}

// LoggingConfigurer applies the global logging flags.
type LoggingConfigurer interface {
	ConfigureLogging(json, verbose bool)
}

// New creates a new CLI instance with the given app. logging may be nil.
func New(a Application, logging LoggingConfigurer) *CLI {
	rootCmd := &cobra.Command{
		Use:           "forge",
		Short:         "Resolve, build and cache native linear algebra types",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(build.Summary() + "\n")
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	c := &CLI{
		app:     a,
		logging: logging,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if c.logging == nil {
			return
		}
		json, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")
		c.logging.ConfigureLogging(json, verbose)
	}

	rootCmd.AddCommand(c.newDescribeCmd())
	rootCmd.AddCommand(c.newSolveCmd())
	rootCmd.AddCommand(c.newWarmCmd())
	rootCmd.AddCommand(c.newCacheCmd())
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

// shapeFlags registers the flags shared by commands that take a block shape.
func shapeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("block", "b", "", `Block shape, "N" or "RxC" (default 1)`)
	cmd.Flags().StringP("scalar", "s", "", "Scalar kind, float64 or float32 (default float64)")
	cmd.Flags().StringSliceP("extra", "e", nil, "Extra solver factory dependencies")
	cmd.Flags().Bool("no-fast-path", false, "Build every artifact instead of using pre-built types")
}

// describeOptions reads the shape flags. An absent --extra yields a nil Extra.
func describeOptions(cmd *cobra.Command) (app.DescribeOptions, error) {
	block, _ := cmd.Flags().GetString("block")
	scalar, _ := cmd.Flags().GetString("scalar")
	extra, err := cmd.Flags().GetStringSlice("extra")
	if err != nil {
		return app.DescribeOptions{}, zerr.Wrap(err, "invalid --extra flag")
	}
	if len(extra) == 0 {
		extra = nil
	}
	noFastPath, _ := cmd.Flags().GetBool("no-fast-path")
	return app.DescribeOptions{
		Block:      block,
		Scalar:     scalar,
		Extra:      extra,
		NoFastPath: noFastPath,
	}, nil
}
