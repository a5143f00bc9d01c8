package profile

import "slices"

// Profiler describes one profiling session.
type Profiler struct {
	// Mode names the profile to collect; see [Modes]. Empty disables
	// profiling.
	Mode string
	// Dir is the output directory. Empty uses the working directory.
	Dir string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Enabled reports whether p names a mode supported by this build.
func (p Profiler) Enabled() bool {
	return p.Mode != "" && slices.Contains(Modes(), p.Mode)
}

// Start begins profiling. The returned Stopper is never nil and is a no-op
// when p is not [Profiler.Enabled].
func (p Profiler) Start() Stopper {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
