package logutils

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LevelEnv overrides the level picked from the gin mode, e.g. "warn".
const LevelEnv = "TASKFLOW_LOG_LEVEL"

// Log is the logger used by the package.
var Log = logrus.New()

// Fields is the type of logrus.Fields.
type Fields = logrus.Fields

//nolint:gochecknoinits // This is the only place where we should set the log level.
func init() {
	Configure(gin.Mode(), os.Getenv(LevelEnv))
}

// Configure sets up Log for the gin mode: colored text in debug mode and JSON
// lines otherwise. A non-empty level that logrus can parse takes precedence.
func Configure(mode, level string) {
	if mode == gin.DebugMode {
		Log.SetLevel(logrus.DebugLevel)
		Log.SetFormatter(&logrus.TextFormatter{
			TimestampFormat:           "2006-01-02 15:04:05",
			ForceColors:               true,
			EnvironmentOverrideColors: true,
			FullTimestamp:             true,
		})
	} else {
		Log.SetLevel(logrus.InfoLevel)
		Log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	}
	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			Log.SetLevel(lvl)
		} else {
			Log.Warnf("ignore %s=%q: %v", LevelEnv, level, err)
		}
	}
	Log.SetReportCaller(true)
}
