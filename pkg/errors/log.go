package errors

import "go.uber.org/zap"

// LogHandler is an ErrorHandler that writes reported errors to a zap logger.
type LogHandler struct {
	// Logger receives the entries. A nil Logger discards them.
	Logger *zap.Logger
	// Verbose adds stack traces to the entries.
	Verbose bool
}

// NewLogHandler returns a LogHandler writing to logger.
func NewLogHandler(logger *zap.Logger, verbose bool) *LogHandler {
	return &LogHandler{Logger: logger, Verbose: verbose}
}

func (h *LogHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// HandleError logs an EngineError at warn level.
func (h *LogHandler) HandleError(err *EngineError) {
	if err == nil {
		return
	}
	h.logger().Warn("engine error",
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err))
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Any("value", err.Value),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("recovered panic", fields...)
}

// HandleBuildError logs a BuildError at error level.
func (h *LogHandler) HandleBuildError(err *BuildError) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("component", err.Component),
		zap.String("error", err.Error()),
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("component render failed", fields...)
}
