// Package engine drives a core.Engine.
//
// The render engine never schedules its own continuation; something outside
// it must keep calling RunSlice. This package provides the drivers:
//
//   - IdleLoop hands each idle slot granted by a host.IdleScheduler to the
//     engine and re-arms itself until stopped.
//   - Runner owns the engine on a dedicated goroutine, drives it from a
//     ticker and serializes work submitted from other goroutines with
//     Dispatch.
//   - Drain runs slices back to back until the engine is idle.
//
// DebugServer exposes the committed fiber tree and the cycle trace of a
// Runner over HTTP.
package engine
