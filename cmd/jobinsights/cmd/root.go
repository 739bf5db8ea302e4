package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/jobinsights/internal/cli"
	"github.com/JonMunkholm/jobinsights/internal/config"
	"github.com/JonMunkholm/jobinsights/internal/logging"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	a := cli.New()
	return rootCmdWithApp(a, loadDefaults(a))
}

// rootCmdWithApp builds the command tree around a. A non-nil loadErr is
// returned by every command before it runs.
func rootCmdWithApp(a *cli.App, loadErr error) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "jobinsights",
		Short:         "jobinsights summarises job listing datasets.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return loadErr
			}
			logging.SetupWriter(cmd.ErrOrStderr(), logLevel, "text")
			a.Out = cmd.OutOrStdout()
			return a.Init(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.Close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.Params.Source.Kind, "kind", a.Params.Source.Kind, "record source: file, postgres, s3")
	flags.StringVar(&a.Params.Source.Root, "root", a.Params.Source.Root, "confine file reads to this directory")
	flags.StringVar(&a.Params.Source.Locale, "locale", a.Params.Source.Locale, `header translation: "" or br`)
	flags.StringVar(&a.Params.Source.Encoding, "encoding", a.Params.Source.Encoding, "CSV encoding: utf-8, latin1, windows-1252")
	flags.BoolVar(&a.Params.JSON, "json", false, "print JSON instead of text")
	flags.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	cmd.AddCommand(
		industriesCmd(a),
		maxSalaryCmd(a),
		minSalaryCmd(a),
		filterCmd(a),
	)

	return cmd
}

// loadDefaults seeds a's source settings from .env and the environment so
// flags only need to override what differs. Settings the CLI does not use are
// not validated; the source section is checked by App.Init after flags apply.
func loadDefaults(a *cli.App) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Parse()
	if err != nil {
		return err
	}

	a.Params.Source = cfg.Source
	// Paths given on the command line are not confined unless --root is set.
	a.Params.Source.Root = ""
	return nil
}
