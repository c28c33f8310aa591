package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/servicesync/internal/cmd/output"
	"github.com/agentstation/servicesync/pkg/logging"
)

// flags are the persistent root flags.
type flags struct {
	configFile string
	verbose    bool
	quiet      bool
	format     string
	logLevel   string
}

// Execute runs the servicesync CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "servicesync",
		Short:   "YTR service registry importer",
		Version: a.version,
		Long: `servicesync imports service offers and service channels from the YTR
service registry, reconciles them against the federated PTV catalog and
replaces the ytr_services and ytr_channels collections of the catalog store.

Imports run once with "import" or repeatedly with "schedule".`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "config file (default is $HOME/.servicesync.yaml)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&a.flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.StringVarP(&a.flags.format, "format", "o", "", "output format: table, json, yaml")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("servicesync {{.Version}}\n")

	rootCmd.AddCommand(a.NewImportCommand())
	rootCmd.AddCommand(a.NewStatusCommand())
	rootCmd.AddCommand(a.NewScheduleCommand())
	rootCmd.AddCommand(a.NewVersionCommand())

	return rootCmd
}

// setupCommand reloads the config file named by --config, applies the
// root flags and installs the logger as the default and in the command
// context.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if a.flags.configFile != "" {
		config, err := LoadConfig(a.flags.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(a.flags.verbose, a.flags.quiet, a.flags.format, a.flags.logLevel)
	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	logger := NewLogger(a.config, a.stderr)
	a.logger = &logger
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// write renders data in the configured format. table is used instead of
// data for table output.
func (a *App) write(data any, table output.Tabular) error {
	format, _ := output.ParseFormat(a.config.Format)
	format = output.Detect(format)
	if format == output.FormatTable && table != nil {
		return output.Write(a.stdout, format, table)
	}
	return output.Write(a.stdout, format, data)
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
