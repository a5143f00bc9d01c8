// Package cli contains the command line interface for shapescript.
//
// # Usage
//
//	shapescript [flags] <command> [args]
//
// With no command, the arguments are passed to "run":
//
//	shapescript star.shape -i points=5
//
// # Configuration
//
// Global flags may be set in a YAML file in the user configuration
// directory, which "init" writes from the current flag values. Keys are
// flag names with hyphens or underscores:
//
//	log-level: info
//	path:
//	  - ~/shapes
//
// Command-line flags override the file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (Go layout or a name such as
//     rfc3339 or none)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o shapescript .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
