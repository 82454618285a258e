package db

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"

	"github.com/saltstack/porch/pkg/log"
)

// SlowThreshold is the query duration above which GORM logs a warning
const SlowThreshold = 200 * time.Millisecond

// NewLogger returns a GORM logger writing through the application logger.
// The GORM log level follows the given logrus level name; an empty or
// unknown name silences SQL logging.
func NewLogger(level string) logger.Interface {
	return logger.New(log.Log, logger.Config{
		SlowThreshold:             SlowThreshold,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
		LogLevel:                  gormLevel(level),
	})
}

func gormLevel(level string) logger.LogLevel {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return logger.Silent
	}
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return logger.Error
	case logrus.WarnLevel, logrus.InfoLevel:
		return logger.Warn
	default:
		return logger.Info
	}
}
