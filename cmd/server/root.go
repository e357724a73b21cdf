package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/RahulSaini202/home-automation/internal/config"
	"github.com/RahulSaini202/home-automation/internal/log"
)

type rootOptions struct {
	configPath string
	overrides  config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "homeauto",
		Short:        "Home automation relay server",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config file (default config.yaml or $HOMEAUTO_CONFIG_DEFAULT_PATH)")
	flags.StringVar(&opts.overrides.DatabasePath, "db", "", "sqlite database path")
	flags.StringVar(&opts.overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newHomeCmd(opts))
	return cmd
}

// load reads .env, resolves configuration and builds the logger.
func (o *rootOptions) load() (*config.Config, *zerolog.Logger, error) {
	bootstrap := log.New("info")
	if err := godotenv.Load(); err != nil {
		bootstrap.Debug().Msg("no .env file found, using environment variables")
	}

	cfg, path, err := config.Load(bootstrap, o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	cfg.UpdateFrom(o.overrides)

	logger := log.New(cfg.LogLevel)
	logger.Debug().Str("config", path).Msg("configuration loaded")
	return &cfg, logger, nil
}
