package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry carrying the service name field.
type Logger struct {
	*logrus.Entry
}

// L is the process-wide logger. main re-initializes it once the
// environment (including any .env file) has been loaded.
var L = New("jung-admin")

func Init(serviceName string) {
	L = New(serviceName)
}

// New creates a logger instance with JSON output and LOG_LEVEL from environment.
func New(serviceName string) *Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	log.SetOutput(os.Stdout)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return &Logger{Entry: log.WithField("service", serviceName)}
}
