// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package logging

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultLogger is the base logger from which subsystem loggers are derived.
var DefaultLogger = InitializeDefaultLogger()

// InitializeDefaultLogger returns a logrus Logger with the default text
// formatter at info level.
func InitializeDefaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

// Discard returns a logger that drops everything written to it.
func Discard() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// SetLogLevel parses 'level' and applies it to 'logger'.
func SetLogLevel(logger *logrus.Logger, level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}

// SetLogFormat switches 'logger' between the text and JSON formatters.
func SetLogFormat(logger *logrus.Logger, format string) error {
	switch strings.ToLower(format) {
	case FormatText:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("unknown log format %q, expected %q or %q", format, FormatText, FormatJSON)
	}
	return nil
}
