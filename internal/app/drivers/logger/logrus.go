package logger

import (
	"os"

	"dococlock-service/internal/app/config"

	"github.com/sirupsen/logrus"
)

// NewLogrusLogger builds the logger for the one-shot commands under cmd/. Production runs
// log JSON to stdout so the job runner picks the lines up with the service logs.
func NewLogrusLogger(env string, cfg config.Logger) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{logrus.FieldKeyMsg: "message", logrus.FieldKeyTime: "timestamp"},
		})
		return log
	}
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}
