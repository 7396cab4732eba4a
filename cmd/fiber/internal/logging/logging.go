// Package logging builds the zap logger used by the fiber command.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Level is a zap level name. Empty means info.
	Level string
	// File, when set, receives JSON logs through a rotating writer instead
	// of the console.
	File string
	// Console is the destination when File is empty. Defaults to os.Stderr.
	Console io.Writer
}

// New builds a logger. The returned close func flushes and releases the
// log file.
func New(opts Options) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
	}

	var core zapcore.Core
	closer := func() {}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    1,
			MaxBackups: 2,
			MaxAge:     30,
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		core = zapcore.NewCore(enc, zapcore.AddSync(rotating), level)
		closer = func() { _ = rotating.Close() }
	} else {
		out := opts.Console
		if out == nil {
			out = os.Stderr
		}
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = ""
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(out), level)
	}

	logger := zap.New(core)
	return logger, func() {
		_ = logger.Sync()
		closer()
	}, nil
}
