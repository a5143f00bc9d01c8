package cli

import (
	"os"
	"testing"

	"github.com/ardnew/shapescript/log"
)

func TestLogConfig_Scan(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	tests := []struct {
		name   string
		args   []string
		level  logLevel
		format logFormat
		pretty bool
		caller bool
	}{
		{
			name:   "separate values",
			args:   []string{"run", "--log-level", "debug", "--log-format", "json", "x.shape"},
			level:  "debug",
			format: "json",
			pretty: true,
		},
		{
			name:   "inline values",
			args:   []string{"--log-level=error", "--log-caller", "check"},
			level:  "error",
			pretty: true,
			caller: true,
		},
		{
			name:   "negated",
			args:   []string{"--no-log-pretty", "--log-caller=false"},
			pretty: false,
		},
		{
			name:   "invalid bool ignored",
			args:   []string{"--log-pretty=maybe"},
			pretty: true,
		},
		{
			name:   "other flags ignored",
			args:   []string{"--level", "debug", "--logger"},
			pretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.level {
				t.Errorf("Level = %q, want %q", f.Level, tt.level)
			}

			if f.Format != tt.format {
				t.Errorf("Format = %q, want %q", f.Format, tt.format)
			}

			if f.Pretty != tt.pretty {
				t.Errorf("Pretty = %v, want %v", f.Pretty, tt.pretty)
			}

			if f.Caller != tt.caller {
				t.Errorf("Caller = %v, want %v", f.Caller, tt.caller)
			}
		})
	}
}

func TestLogConfig_Vars(t *testing.T) {
	vars := (&logConfig{}).vars()

	if got := vars["logLevel"]; got != "warn" {
		t.Errorf("logLevel = %q, want warn", got)
	}

	if got := vars["logLevelEnum"]; got != "trace,debug,info,warn,error" {
		t.Errorf("logLevelEnum = %q", got)
	}

	if got := vars["logFormatEnum"]; got != "text,json" {
		t.Errorf("logFormatEnum = %q", got)
	}
}
