package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Field keys shared by every command.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	FieldRunID    = "run_id"
	FieldExpert   = "expert"
)

func orNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// with tags l with the given key/value pairs, dropping blank values.
func with(l *zap.Logger, kv ...string) *zap.Logger {
	l = orNop(l)

	fields := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if value := strings.TrimSpace(kv[i+1]); value != "" {
			fields = append(fields, zap.String(kv[i], value))
		}
	}

	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// WithModel tags entries with the model backend serving them.
func WithModel(l *zap.Logger, provider, model string) *zap.Logger {
	return with(l, FieldProvider, provider, FieldModel, model)
}

// WithRun tags entries with the scoring run id.
func WithRun(l *zap.Logger, runID string) *zap.Logger {
	return with(l, FieldRunID, runID)
}

// WithExpert tags entries with the expert being scored.
func WithExpert(l *zap.Logger, expert string) *zap.Logger {
	return with(l, FieldExpert, expert)
}
