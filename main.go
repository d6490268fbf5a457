package main

import (
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	pymcmd "github.com/go-pym/pym/cmd"
	"github.com/go-pym/pym/cmd/version"
	"github.com/go-pym/pym/config"
	"github.com/go-pym/pym/internal/installer"
	"github.com/go-pym/pym/internal/orchestrator"
	"github.com/go-pym/pym/internal/ui"
)

func main() {
	var verbose bool
	var logger *zap.SugaredLogger

	root := &cobra.Command{
		Use:              "pym",
		Short:            "pym installs packages for dynamic-language projects from git and index sources",
		TraverseChildren: true,
		SilenceUsage:     true,
		SilenceErrors:    true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if verbose {
				cfg.LogLevel = "debug"
			}
			if !cfg.Color {
				color.NoColor = true
			}

			built, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			logger = built
			ui.SetErrorLogger(logger)
			if verbose {
				ui.SetVerbosityLevel(ui.VerbosityLevelVerbose)
			}

			cmd.SetContext(cfg.Inject(cmd.Context()))
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Show the full error chain on failure")
	root.PersistentFlags().String("log-level", "info", "Logging level (debug, info, warn, error)")
	root.PersistentFlags().String("index-url", "https://pypi.org/simple", "Base URL of the package index")
	root.PersistentFlags().Bool("color", true, "Colorize CLI output")

	afs := afero.NewOsFs()
	orch := func(cmd *cobra.Command) *orchestrator.Orchestrator {
		cfg, _ := config.FromContext(cmd.Context())
		httpClient := &http.Client{Timeout: cfg.NetworkTimeout}
		if httpClient.Timeout == 0 {
			httpClient.Timeout = 30 * time.Second
		}

		installers := []installer.Installer{
			&installer.Git{Logger: logger},
			&installer.Index{BaseURL: cfg.IndexBaseURL, Client: httpClient, Logger: logger},
		}
		o := orchestrator.New(afs, installers)
		o.Prompter = ui.ConsolePrompter{}
		o.Logger = logger
		return o
	}

	root.AddCommand(pymcmd.NewInitCommand(afs))
	root.AddCommand(pymcmd.NewInstallCommand(orch))
	root.AddCommand(pymcmd.NewUninstallCommand(orch))
	root.AddCommand(version.NewVersionCommand())

	if err := root.Execute(); err != nil {
		ui.ErrorExit(err)
	}
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.Set(level); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
