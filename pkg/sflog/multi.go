package sflog

import "github.com/fivetwenty-io/superfaktura-client/pkg/superfaktura"

type multiLogger []superfaktura.Logger

// Multi sends every event to each non-nil logger in order.
func Multi(loggers ...superfaktura.Logger) superfaktura.Logger {
	out := make(multiLogger, 0, len(loggers))

	for _, logger := range loggers {
		if logger != nil {
			out = append(out, logger)
		}
	}

	return out
}

func (m multiLogger) Debug(msg string, fields map[string]interface{}) {
	for _, logger := range m {
		logger.Debug(msg, fields)
	}
}

func (m multiLogger) Info(msg string, fields map[string]interface{}) {
	for _, logger := range m {
		logger.Info(msg, fields)
	}
}

func (m multiLogger) Warn(msg string, fields map[string]interface{}) {
	for _, logger := range m {
		logger.Warn(msg, fields)
	}
}

func (m multiLogger) Error(msg string, fields map[string]interface{}) {
	for _, logger := range m {
		logger.Error(msg, fields)
	}
}

type nopLogger struct{}

// Nop discards every event.
func Nop() superfaktura.Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
