// Package log provides the application wide logrus logger.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

const (
	// AccountField is the log field name of an account's GitHub id
	AccountField = "accountId"
	// ServerField is the log field name of a build server address
	ServerField = "buildServer"
	// RequestField is the log field name of an HTTP request id
	RequestField = "requestId"
)

// ServiceContext identifies the running service in structured logs
type ServiceContext struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

// Log is the application wide console logger
var Log = logrus.WithFields(logrus.Fields{})

func init() {
	logLevelFromEnv()
}

func logLevelFromEnv() {
	level := os.Getenv("PORCH_LOG_LEVEL")
	if level == "" {
		return
	}

	newLevel, err := logrus.ParseLevel(level)
	if err == nil {
		Log.Logger.SetLevel(newLevel)
	}
}

// Init initializes/configures the application-wide logger
func Init(service, version string, json, verbose bool) {
	Log = logrus.WithFields(logrus.Fields{
		"serviceContext": ServiceContext{service, version},
	})

	if json {
		Log.Logger.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg: "message",
			},
		})
	} else {
		Log.Logger.SetFormatter(&logrus.TextFormatter{})
	}

	logLevelFromEnv()

	if verbose {
		Log.Logger.SetLevel(logrus.DebugLevel)
	}
}

// SetLevel parses and applies a level name, leaving the level untouched
// when the name is empty or unknown.
func SetLevel(level string) {
	if level == "" {
		return
	}
	if l, err := logrus.ParseLevel(level); err == nil {
		Log.Logger.SetLevel(l)
	}
}

// WithAccount returns an entry tagged with an account id
func WithAccount(id int64) *logrus.Entry {
	return Log.WithField(AccountField, id)
}

// WithServer returns an entry tagged with a build server address
func WithServer(address string) *logrus.Entry {
	return Log.WithField(ServerField, address)
}
