// Package logger builds the zap logger shared by all commands and the field
// helpers used to tag entries with run, model and expert.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:   "step",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeTime:   zapcore.RFC3339TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
}

// New builds the process logger. Entries go to stderr, stdout is left to the
// summaries the commands print.
func New(json bool, debug bool) (*zap.Logger, error) {
	cfg := zap.Config{
		Encoding:          "console",
		Level:             zap.NewAtomicLevelAt(zapcore.InfoLevel),
		DisableStacktrace: !debug,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig:     encoderConfig(),
	}

	if json {
		cfg.Encoding = "json"
	}
	if debug {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}

	return cfg.Build()
}
