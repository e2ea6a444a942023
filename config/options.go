// Package config assembles the CLI's flat Options struct: every knob in
// the external interface (spec §6) lands here as one field, with
// defaults supplied by struct tags rather than code, the way
// config.Config does in the teacher.
package config

import (
	"fmt"
	"runtime"

	"github.com/creasty/defaults"

	"github.com/anonion0/n3map/log"
)

// Options is the fully-resolved set of CLI flags and positional
// arguments for one n3map invocation. cmd/ populates it from cobra
// flags/args; nothing below this package should read os.Args directly.
type Options struct {
	// Zone and servers (positional arguments).
	Zone        string
	Nameservers []string

	// Detection (-a/--auto, -3/--nsec3, -n/--nsec).
	Auto              bool
	ForceNSEC3        bool
	ForceNSEC         bool
	DetectionAttempts int `default:"5"`

	// Record-file I/O (-o/-i/-c).
	OutputFile   string
	InputFile    string
	ContinueFile string

	// NSEC walker mode (-m, -M/-A/-N, -b/-l, -s/-e).
	WalkMode WalkMode `default:"mixed"`
	Alphabet string   `default:"binary"`
	Start    string
	End      string

	// NSEC3 walker (-f, --ignore-overlapping, -p, --processes,
	// --label-counter, --hashlimit, --queue-element-size).
	Aggressive        int `default:"0"`
	IgnoreOverlapping bool
	Predict           bool
	Processes         int `default:"0"` // 0 = max(1, cpus-1), see ResolvedProcesses
	LabelCounter      uint64
	HasLabelCounter   bool
	HashLimit         uint64 `default:"0"` // 0 = unlimited
	QueueElementSize  int    `default:"256"`

	// Rate limiting and retry budgets.
	LimitRate  string // "R/(s|m|h)", empty = unlimited
	MaxRetries int    `default:"5"`  // -1 = unlimited
	MaxErrors  int    `default:"-1"` // -1 = unlimited
	Timeout    int    `default:"2500"` // milliseconds

	// Pre-flight checks (--omit-soa-check, --omit-dnskey-check).
	OmitSOACheck    bool
	OmitDNSKeyCheck bool

	// Transport (-4/-6).
	IPVersion IPVersion `default:"dual"`

	// Observability (-q, -v, --color, --metrics-addr).
	Quiet       bool
	Verbose     bool
	Color       log.ColorMode `default:"auto"`
	MetricsAddr string

	// Behavior not in spec.md's table but resolved as an Open Question
	// in favor of exposing it (see DESIGN.md).
	NeverPrefixLabel bool

	Version bool
}

// WithDefaults returns an Options with every `default` struct tag
// applied, mirroring blocky's config.WithDefaults[T]() generic helper
// (here monomorphic, since this package has exactly one config type).
func WithDefaults() (Options, error) {
	var o Options
	if err := defaults.Set(&o); err != nil {
		return Options{}, fmt.Errorf("applying option defaults: %w", err)
	}

	return o, nil
}

// ResolvedProcesses returns the number of pre-hash workers to start,
// applying map.py's `_def_num_of_processes` fallback (cpus-1, floored
// at 1) when Processes was left at its zero value.
func (o Options) ResolvedProcesses() int {
	if o.Processes > 0 {
		return o.Processes
	}

	if n := runtime.NumCPU(); n > 1 {
		return n - 1
	}

	return 1
}
