package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. It works out of the box at info
// level; Init applies the configured level and format.
var Log = logrus.New()

// Init configures the shared logger. Call once at startup.
func Init(level, format string) {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		lv = logrus.InfoLevel
	}
	Log.SetLevel(lv)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Log.SetOutput(os.Stderr)
}
