package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger instance.
var Log *logrus.Logger

// Init configures the global logger. Call once at startup, before any
// subsystem logs. Level and format may later be overridden by config.
func Init() {
	Log = logrus.New()

	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// "json" for production log collection, "text" for local development.
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// Configure re-applies level and format after config parsing. Unknown
// values keep the current settings.
func Configure(level, format string) {
	if Log == nil {
		Init()
	}
	if lvl, err := logrus.ParseLevel(level); err == nil {
		Log.SetLevel(lvl)
	}
	switch strings.ToLower(format) {
	case "json":
		Log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
}

// System returns a scoped entry tagged with the originating subsystem.
func System(name string) *logrus.Entry {
	if Log == nil {
		Init()
	}
	return Log.WithField("system", name)
}
