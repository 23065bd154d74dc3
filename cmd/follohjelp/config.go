package main

import (
	"fmt"
	"os"

	"follohjelp/pkg/types"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func loadConfig(c *cli.Context) (*types.Config, error) {
	config := new(types.Config)
	if err := envconfig.Process(c.String("env-prefix"), config); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	for setting, mode := range map[string]types.FieldMode{
		"CATEGORY_FIELD_MODE": config.CategoryFieldMode,
		"LOCATION_FIELD_MODE": config.LocationFieldMode,
	} {
		if mode != types.FieldModeText && mode != types.FieldModeLinked {
			return nil, fmt.Errorf("set %s to %q or %q, got %q", setting, types.FieldModeText, types.FieldModeLinked, mode)
		}
	}

	return config, nil
}

func newLogger(config *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		logger.WithError(err).WithField("log_level", config.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
