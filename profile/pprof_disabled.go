//go:build !pprof

package profile

// Modes returns nil; this build has no profiling support.
func Modes() []string { return nil }

func start(Profiler) Stopper { return ignore{} }
