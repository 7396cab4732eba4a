package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// Recover reports a panic in progress as a PanicError tagged with op. Defer it
// directly:
//
//	defer errors.Recover("engine.Runner")
//
// Contract violations are re-raised.
func Recover(op string) {
	if r := recover(); r != nil {
		recovered(op, r)
	}
}

// RecoverWithCallback is Recover followed by fn(r) once the panic has been
// reported. Drivers use fn to count failures or reset their own state.
func RecoverWithCallback(op string, fn func(r any)) {
	if r := recover(); r != nil {
		recovered(op, r)
		if fn != nil {
			fn(r)
		}
	}
}

func recovered(op string, r any) {
	if IsContract(r) {
		panic(r)
	}
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
}

// CaptureStack formats the calling goroutine's stack, one "function\n\tfile:line"
// entry per frame, starting at the caller of CaptureStack.
func CaptureStack() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			return sb.String()
		}
	}
}
