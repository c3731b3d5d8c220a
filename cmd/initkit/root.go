package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/initkit/bootstrap"
	"github.com/kbukum/initkit/config"
	"github.com/kbukum/initkit/di"
	"github.com/kbukum/initkit/logger"
	"github.com/kbukum/initkit/settings"
	"github.com/kbukum/initkit/version"
)

const (
	serviceName = "initkit"

	FlagConfig  = "config"
	FlagEnvFile = "env-file"
)

type rootOptions struct {
	configFile string
	envFile    string
}

// New returns the root command.
func New() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Inspect initkit settings",
		Long:          `Load the service configuration the way an initkit process does and inspect the resulting settings.`,
		Version:       version.Get().Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, FlagConfig, "c", "",
		"config file (default: searched like a service, e.g. ./config.yml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, FlagEnvFile, "",
		".env file loaded before environment binding")

	cmd.AddCommand(
		newSettingsCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadApp loads the configuration and builds the App. Log lines go to the
// command's stderr so stdout only carries results.
func (o *rootOptions) loadApp(cmd *cobra.Command) (*bootstrap.App[*config.ServiceConfig], error) {
	log := logger.NewWithWriter(&logger.Config{
		Level:   "info",
		Format:  logger.FormatConsole,
		NoColor: true,
	}, serviceName, cmd.ErrOrStderr())

	var loadOpts []config.LoaderOption
	if o.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(o.envFile))
	}

	return bootstrap.LoadAndNew(serviceName, loadOpts,
		bootstrap.WithLogger(log),
		bootstrap.WithSummaryOutput(io.Discard),
	)
}

// loadSettings returns the settings registry of a freshly loaded App.
func (o *rootOptions) loadSettings(cmd *cobra.Command) (*settings.Registry, error) {
	app, err := o.loadApp(cmd)
	if err != nil {
		return nil, err
	}
	return di.MustResolve[*settings.Registry](app.Container, di.Keys.Settings), nil
}
