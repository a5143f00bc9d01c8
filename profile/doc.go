// Package profile starts optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	shapescript --pprof-mode cpu run star.shape
//
// Without the tag [Modes] is empty and [Profiler.Start] does nothing, so
// callers never need to check the build configuration. With the tag the
// package also registers the [net/http/pprof] handlers.
//
// Profiles are written to [Profiler.Dir] and can be inspected with
//
//	go tool pprof -http=: cpu.pprof
package profile

// Tag is the build tag that enables profiling.
const Tag = "pprof"
