// Package sflog provides superfaktura.Logger implementations: a logrus
// adapter, a NATS event publisher, a fan-out and a no-op sink.
package sflog

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

// LogrusLogger forwards events to a logrus logger.
type LogrusLogger struct {
	logger logrus.FieldLogger
}

// NewLogrus adapts logger. A nil logger uses the logrus standard logger.
func NewLogrus(logger logrus.FieldLogger) *LogrusLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &LogrusLogger{logger: logger}
}

// FieldLogger returns the wrapped logger.
func (l *LogrusLogger) FieldLogger() logrus.FieldLogger {
	return l.logger
}

// Debug implements superfaktura.Logger.
func (l *LogrusLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.WithFields(logrus.Fields(fields)).Debug(msg)
}

// Info implements superfaktura.Logger.
func (l *LogrusLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn implements superfaktura.Logger.
func (l *LogrusLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error implements superfaktura.Logger.
func (l *LogrusLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.WithFields(logrus.Fields(fields)).Error(msg)
}

// NewLogrusWithLevel builds a text logger at the named level ("debug",
// "info", ...). Debug mode overrides level and reports callers.
func NewLogrusWithLevel(level string, debug bool) (*LogrusLogger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableLevelTruncation: true,
		FullTimestamp:          true,
	})

	if debug {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetReportCaller(true)

		return NewLogrus(logger), nil
	}

	if level == "" {
		logger.SetLevel(logrus.WarnLevel)

		return NewLogrus(logger), nil
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	logger.SetLevel(parsed)

	return NewLogrus(logger), nil
}

var _ superfaktura.Logger = (*LogrusLogger)(nil)
