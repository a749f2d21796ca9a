package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide structured logger. It is usable before Init with
// logrus defaults so packages and tests never see a nil logger.
var Log = logrus.New()

func Init(level string, output io.Writer) {
	if output == nil {
		output = os.Stdout
	}
	Log.Out = output
	Log.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)
}

func WithUser(userID string) *logrus.Entry {
	return Log.WithField("user_id", userID)
}
