// Package logger wraps zap behind the log shape the services use: one call
// carrying a level, a per-request trace ID, a message, structured fields
// and the emitting component.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogStreamer struct {
	zl *zap.Logger
}

// NewLogStreamer builds a streamer for the given environment ("prod" gets
// JSON output, anything else the development console encoder).
func NewLogStreamer(env string) (*LogStreamer, error) {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &LogStreamer{zl: zl}, nil
}

// Log emits one structured entry. traceID ties together every entry of a
// single request; component names the layer ("SERVICE", "HANDLER", "CRON").
func (l *LogStreamer) Log(level zapcore.Level, traceID string, msg string, fields map[string]any, component string, err error) {
	zf := make([]zap.Field, 0, len(fields)+3)
	if traceID != "" {
		zf = append(zf, zap.String("traceID", traceID))
	}
	if component != "" {
		zf = append(zf, zap.String("component", component))
	}
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	if err != nil {
		zf = append(zf, zap.Error(err))
	}

	switch level {
	case zapcore.DebugLevel:
		l.zl.Debug(msg, zf...)
	case zapcore.WarnLevel:
		l.zl.Warn(msg, zf...)
	case zapcore.ErrorLevel:
		l.zl.Error(msg, zf...)
	case zapcore.FatalLevel:
		l.zl.Fatal(msg, zf...)
	default:
		l.zl.Info(msg, zf...)
	}
}

func (l *LogStreamer) Sync() {
	_ = l.zl.Sync()
}
