package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const logLevelEnv = "CACHESIM_LOG_LEVEL"

func setupLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	lvl := os.Getenv(logLevelEnv)
	switch strings.ToLower(lvl) {
	case "trace":
		logger.SetLevel(logrus.TraceLevel)
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info", "":
		logger.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
		logger.Warnf("Invalid %s '%s'; Using INFO", logLevelEnv, lvl)
	}
	return logger
}
