package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)
	logg.SetLevel(logrus.InfoLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv("ANBARGAR_LOG_LEVEL")); err == nil {
		logg.SetLevel(lvl)
	}
}

// LogError records a failure with its module/function context so operator
// sessions can be traced without a debugger attached.
func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, err error) {
	logger.WithFields(logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}).Error(err.Error())
}
