package errors

import (
	"sync/atomic"
	"time"
)

type handlerSlot struct{ h ErrorHandler }

var handler atomic.Pointer[handlerSlot]

// SetHandler installs the handler that receives every reported error.
// Nil restores a LogHandler that discards everything.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	handler.Store(&handlerSlot{h: h})
}

// Handler returns the installed handler.
func Handler() ErrorHandler {
	if s := handler.Load(); s != nil {
		return s.h
	}
	return &LogHandler{}
}

// Report hands a non-fatal engine error to the handler, stamping it with the
// current time if it carries none.
func Report(err *EngineError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandleError(err)
}

// ReportPanic hands a recovered panic to the handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandlePanic(err)
}

// ReportBuildError hands a failed component render to the handler.
func ReportBuildError(err *BuildError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	Handler().HandleBuildError(err)
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}
