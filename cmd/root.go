package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/careerpath/internal/config"
	"github.com/okian/careerpath/pkg/logger"
)

const app = "careerpath"

type cfgKey struct{}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(promptChooser)
}

// newRootCmdWith assembles the command tree. Every subcommand runs after .env
// loading, configuration and logger setup done in PersistentPreRunE.
func newRootCmdWith(choose chooser) *cobra.Command {
	var (
		cfgFile string
		debug   bool
		asJSON  bool
	)

	root := &cobra.Command{
		Use:           app,
		Short:         "careerpath recommends career paths from skills and interests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd.Context(), cmd.ErrOrStderr(), cfgFile, debug, asJSON)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), cfgKey{}, cfg))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "a YAML config file (overrides "+config.EnvConfigFile+")")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVarP(&asJSON, "json", "j", false, "json format for logging")

	root.AddCommand(
		newServeCmd(),
		newCareersCmd(),
		newRecommendCmd(),
		newAssessCmdWith(choose),
		newVersionCmd(),
	)
	return root
}

// setup loads .env, the layered configuration and the global logger, in
// that order. Logs go to logOut so command output stays clean on stdout.
func setup(ctx context.Context, logOut io.Writer, cfgFile string, debug, asJSON bool) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if cfgFile != "" {
		if err := os.Setenv(config.EnvConfigFile, cfgFile); err != nil {
			return nil, fmt.Errorf("set %s: %w", config.EnvConfigFile, err)
		}
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	format := logger.Format(cfg.LogFormat)
	if asJSON {
		format = logger.FormatJSON
	}
	if err := logger.InitWith(format, logOut); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// configFrom returns the configuration stored by the root command.
func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(cfgKey{}).(*config.Config); ok {
		return cfg
	}
	return config.New(cmd.Context())
}
