package logger

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger. An empty logFilePath, or
// one that cannot be opened, logs to stdout.
func InitLogger(logFilePath, level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	if logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
			logrus.Warnf("Failed to create log directory for %s, using stdout: %v", logFilePath, err)
		} else if logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err != nil {
			logrus.Warnf("Failed to open log file (%s), using stdout: %v", logFilePath, err)
		} else {
			logrus.SetOutput(logFile)
		}
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	logrus.Info("Logger initialized")
}
