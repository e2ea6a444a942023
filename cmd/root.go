package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anonion0/n3map/config"
	"github.com/anonion0/n3map/log"
)

// version is set at release build time via -ldflags; "undefined" in a
// plain `go build` mirrors the teacher's own placeholder.
//
//nolint:gochecknoglobals
var version = "undefined"

// opts is the resolved Options this invocation runs with, populated by
// resolveOptions from the raw flag variables below once cobra has parsed
// args. flagXxx mirror the CLI surface 1:1; opts is what the rest of the
// program reads.
//
//nolint:gochecknoglobals
var opts config.Options

//nolint:gochecknoglobals
var (
	flagModeRaw  string
	flagMixed    bool
	flagAMode    bool
	flagNSECMode bool
	flagLdh      bool
	flagColorRaw string
	flagIPv4     bool
	flagIPv6     bool
	flagBinary   bool
)

// NewRootCommand builds the n3map CLI (§6): a single command that parses
// every walk-configuring flag, resolves and validates them, and runs the
// walk.
func NewRootCommand() *cobra.Command {
	defaults, err := config.WithDefaults()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts = defaults
	flagModeRaw = opts.WalkMode.String()
	flagColorRaw = opts.Color.String()

	c := &cobra.Command{
		Use:     "n3map [options]... [nameserver[:port]]... zone",
		Short:   "n3map walks a DNSSEC zone's NSEC/NSEC3 chain",
		Long: `n3map reconstructs a zone's authenticated-denial chain by querying its
nameservers, recovering every owner name NSEC proves or every NSEC3
hash interval covers.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}

			return nil
		},
		Version:      version,
		SilenceUsage: true,
		RunE:         runWalk,
	}

	c.SetVersionTemplate("{{.Version}}\n")
	c.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
	registerFlags(c)

	return c
}

//nolint:funlen
func registerFlags(c *cobra.Command) {
	f := c.Flags()

	f.BoolVarP(&opts.Auto, "auto", "a", opts.Auto, "detect NSEC vs NSEC3 by probing a handful of labels")
	f.BoolVarP(&opts.ForceNSEC3, "nsec3", "3", opts.ForceNSEC3, "force NSEC3 enumeration")
	f.BoolVarP(&opts.ForceNSEC, "nsec", "n", opts.ForceNSEC, "force NSEC enumeration")

	f.StringVarP(&opts.OutputFile, "output", "o", opts.OutputFile, "write records to FILE ('-' for stdout)")
	f.StringVarP(&opts.InputFile, "input", "i", opts.InputFile, "resume a walk from FILE")
	f.StringVarP(&opts.ContinueFile, "continue", "c", opts.ContinueFile, "read and overwrite FILE, keeping FILE~ as a backup until finished")

	f.StringVarP(&flagModeRaw, "mode", "m", flagModeRaw, "NSEC query mode: mixed, NSEC, or A")
	f.BoolVarP(&flagMixed, "mixed-mode", "M", false, "shortcut for --mode=mixed")
	f.BoolVarP(&flagAMode, "a-mode", "A", false, "shortcut for --mode=A")
	f.BoolVarP(&flagNSECMode, "nsec-mode", "N", false, "shortcut for --mode=NSEC")

	f.BoolVarP(&flagLdh, "ldh", "l", false, "use the LDH alphabet for synthesized A-mode names (default: binary)")
	f.BoolVarP(&flagBinary, "binary", "b", true, "use the binary alphabet for synthesized A-mode names (default)")

	f.StringVarP(&opts.Start, "start", "s", opts.Start, "start the walk at DOMAIN instead of the zone apex")
	f.StringVarP(&opts.End, "end", "e", opts.End, "stop the walk once DOMAIN is reached")

	f.IntVarP(&opts.Aggressive, "aggressive", "f", opts.Aggressive, "NSEC3 in-flight query width (0 = synchronous)")
	f.BoolVar(&opts.IgnoreOverlapping, "ignore-overlapping", opts.IgnoreOverlapping, "tolerate overlapping NSEC3 intervals instead of aborting")
	f.BoolVarP(&opts.Predict, "predict", "p", opts.Predict, "estimate the zone's total record count as the walk progresses")

	f.IntVar(&opts.Processes, "processes", opts.Processes, "pre-hash worker count (0 = max(1, cpus-1))")
	f.Uint64Var(&opts.LabelCounter, "label-counter", opts.LabelCounter, "seed the NSEC3 pre-hash counter")
	f.Uint64Var(&opts.HashLimit, "hashlimit", opts.HashLimit, "stop after this many NSEC3 hashes (0 = unlimited)")
	f.IntVar(&opts.QueueElementSize, "queue-element-size", opts.QueueElementSize, "pre-hash batch size")

	f.StringVar(&opts.LimitRate, "limit-rate", opts.LimitRate, "aggregate query rate cap, e.g. 20/s, 500/m, 2/h")
	f.IntVar(&opts.MaxRetries, "max-retries", opts.MaxRetries, "per-server retry budget (-1 = unlimited)")
	f.IntVar(&opts.MaxErrors, "max-errors", opts.MaxErrors, "per-server error budget before eviction (-1 = unlimited)")
	f.IntVar(&opts.Timeout, "timeout", opts.Timeout, "per-query UDP/TCP timeout in milliseconds")
	f.IntVar(&opts.DetectionAttempts, "detection-attempts", opts.DetectionAttempts, "NSEC/NSEC3 auto-detection probe budget (0 = unlimited)")

	f.BoolVar(&opts.OmitSOACheck, "omit-soa-check", opts.OmitSOACheck, "skip the pre-flight SOA authority check")
	f.BoolVar(&opts.OmitDNSKeyCheck, "omit-dnskey-check", opts.OmitDNSKeyCheck, "skip the pre-flight DNSKEY signed-zone check")

	f.BoolVarP(&flagIPv4, "ipv4", "4", false, "only contact nameservers over IPv4")
	f.BoolVarP(&flagIPv6, "ipv6", "6", false, "only contact nameservers over IPv6")

	f.BoolVar(&opts.NeverPrefixLabel, "never-prefix-label", opts.NeverPrefixLabel, "never descend a label deeper while probing in A/mixed mode")

	f.StringVar(&opts.MetricsAddr, "metrics-addr", opts.MetricsAddr, "expose a Prometheus /metrics endpoint on this address")

	f.BoolVarP(&opts.Quiet, "quiet", "q", opts.Quiet, "suppress progress output")
	f.BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "enable debug logging")
	f.StringVar(&flagColorRaw, "color", flagColorRaw, "colorize output: auto, always, or never")
}

// resolveOptions folds the raw mode/alphabet/color/IP-version flags into
// opts's typed fields and splits positional args into nameservers+zone,
// mirroring map.py's parse_arguments() post-processing.
func resolveOptions(args []string) error {
	switch {
	case flagMixed:
		opts.WalkMode = config.WalkModeMixed
	case flagAMode:
		opts.WalkMode = config.WalkModeA
	case flagNSECMode:
		opts.WalkMode = config.WalkModeNsec
	default:
		m, err := config.ParseWalkMode(flagModeRaw)
		if err != nil {
			return err
		}

		opts.WalkMode = m
	}

	if flagLdh {
		opts.Alphabet = "ldh"
	}

	color, err := log.ParseColorMode(flagColorRaw)
	if err != nil {
		return err
	}

	opts.Color = color

	switch {
	case flagIPv4:
		opts.IPVersion = config.IPVersionV4
	case flagIPv6:
		opts.IPVersion = config.IPVersionV6
	}

	opts.Nameservers = args[:len(args)-1]
	opts.Zone = args[len(args)-1]

	return nil
}

func initLogger() {
	lc := log.Config{Level: log.LevelInfo, Color: opts.Color, Timestamp: true}

	if opts.Verbose {
		lc.Level = log.LevelDebug
	}

	log.ConfigureLogger(lc)

	if opts.Quiet {
		log.Silence()
	} else if opts.Verbose {
		log.Verbose()
	}
}

// Execute runs the root command, exiting the process with the exit code
// the run produced (§6: 0 success, 2 usage, 3 SIGINT, 1 other fatal).
func Execute() {
	c := NewRootCommand()
	if err := c.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
