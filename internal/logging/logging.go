package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

func SetupLogging() *logrus.Logger {
	formatter := &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyLevel: "loglevel",
		},
	}

	logger := logrus.Logger{
		Formatter: formatter,
		Out:       os.Stdout,
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}

	// Package level logrus calls (bootstrap, fatal paths) share the format.
	logrus.SetFormatter(formatter)
	logrus.SetOutput(os.Stdout)

	return &logger
}

// SetLevel applies a textual level such as "debug" or "warn" to the logger
// and to the package level logrus logger.
func SetLevel(logger *logrus.Logger, level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	logger.SetLevel(parsed)
	logrus.SetLevel(parsed)
	return nil
}
