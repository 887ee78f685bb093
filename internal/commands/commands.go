package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gocrypt/internal/config"
	"github.com/idelchi/gocrypt/internal/logic"
)

// EnvPrefix prefixes the environment variables that mirror the flags,
// e.g. GOCRYPT_PARALLEL or GOCRYPT_KEY_FILE.
const EnvPrefix = "GOCRYPT"

// newViper returns a viper instance holding the flags of cmd,
// overridable through prefixed environment variables.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	return v, nil
}

// bind loads flags and environment variables into cfg.
func bind(cmd *cobra.Command, cfg *config.Config) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return nil
}

// preRun returns a PreRunE handler that loads the configuration,
// stores the positional args in cfg.Files and validates the result.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := bind(cmd, cfg); err != nil {
			return err
		}

		cfg.Files = args

		return cfg.Validate()
	}
}

// logger builds a logger writing to stderr at the given level.
func logger(level string) (*logrus.Logger, error) {
	return logic.NewLogger(level, os.Stderr)
}

// run returns a RunE handler that processes the configured files.
func run(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		log, err := logger(cfg.LogLevel)
		if err != nil {
			return err
		}

		return logic.Run(cmd.Context(), cfg, log)
	}
}
