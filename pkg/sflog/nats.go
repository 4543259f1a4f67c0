package sflog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/superfaktura-client/internal/constants"
	"github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"
)

// Publisher is the part of *nats.Conn the NATS sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Event is the JSON document published for every log call.
type Event struct {
	Time    time.Time              `json:"time"`
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// NATSLogger publishes events to "<subject>.<level>".
type NATSLogger struct {
	publisher Publisher
	subject   string
	fallback  superfaktura.Logger
	now       func() time.Time
}

// NATSOption configures a NATSLogger.
type NATSOption func(*NATSLogger)

// WithFallback receives events that could not be published.
func WithFallback(logger superfaktura.Logger) NATSOption {
	return func(l *NATSLogger) {
		l.fallback = logger
	}
}

// NewNATS creates a sink publishing through publisher. An empty subject
// uses "superfaktura.events".
func NewNATS(publisher Publisher, subject string, opts ...NATSOption) *NATSLogger {
	if subject == "" {
		subject = constants.DefaultSubject
	}

	logger := &NATSLogger{
		publisher: publisher,
		subject:   subject,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

// ConnectNATS dials url and returns a sink on the new connection together
// with a function that drains and closes it.
func ConnectNATS(url, subject string, opts ...NATSOption) (*NATSLogger, func(), error) {
	conn, err := nats.Connect(url, nats.Name("sfapi"))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	closeFn := func() {
		_ = conn.Drain()
	}

	return NewNATS(conn, subject, opts...), closeFn, nil
}

// Debug implements superfaktura.Logger.
func (l *NATSLogger) Debug(msg string, fields map[string]interface{}) {
	l.publish("debug", msg, fields)
}

// Info implements superfaktura.Logger.
func (l *NATSLogger) Info(msg string, fields map[string]interface{}) {
	l.publish("info", msg, fields)
}

// Warn implements superfaktura.Logger.
func (l *NATSLogger) Warn(msg string, fields map[string]interface{}) {
	l.publish("warn", msg, fields)
}

// Error implements superfaktura.Logger.
func (l *NATSLogger) Error(msg string, fields map[string]interface{}) {
	l.publish("error", msg, fields)
}

func (l *NATSLogger) publish(level, msg string, fields map[string]interface{}) {
	data, err := json.Marshal(Event{
		Time:    l.now().UTC(),
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
	if err == nil {
		err = l.publisher.Publish(l.subject+"."+level, data)
	}

	if err != nil && l.fallback != nil {
		l.fallback.Error("Publishing event failed", map[string]interface{}{
			"subject": l.subject + "." + level,
			"message": msg,
			"error":   err.Error(),
		})
	}
}

var _ superfaktura.Logger = (*NATSLogger)(nil)
