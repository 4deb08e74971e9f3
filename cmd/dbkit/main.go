package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/eduardofuncao/dbkit/internal/config"
	"github.com/eduardofuncao/dbkit/internal/logger"
	"github.com/eduardofuncao/dbkit/internal/styles"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &App{logCfg: logger.DefaultConfig()}

	root := &cobra.Command{
		Use:           "dbkit",
		Short:         "dbkit - run SQL against MySQL, Oracle and PostgreSQL connections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.cfgFile, "config", config.CfgFile, "config file")
	flags.StringVar(&app.logCfg.Level, "log-level", app.logCfg.Level, "log level (debug, info, warn, error)")
	flags.StringVar(&app.logCfg.Encoding, "log-format", app.logCfg.Encoding, "log format (console or json)")
	flags.BoolVar(&app.logCfg.Development, "log-dev", false, "development logging with caller info and colored levels")

	root.AddCommand(
		app.initCmd(),
		app.listCmd(),
		app.statusCmd(),
		app.switchCmd(),
		app.removeCmd(),
		app.addCmd(),
		app.runCmd(),
		app.exportCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dbkit v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
