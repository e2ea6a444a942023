package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/anonion0/n3map/config"
	"github.com/anonion0/n3map/log"
	"github.com/anonion0/n3map/metrics"
	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/predict"
	"github.com/anonion0/n3map/queryprovider"
	"github.com/anonion0/n3map/record"
	"github.com/anonion0/n3map/rr"
	"github.com/anonion0/n3map/walker"
)

// errUsage marks a flag/argument problem, mapped to exit code 2.
var errUsage = errors.New("cmd: usage error")

// errInterrupted marks a SIGINT-driven abort, mapped to exit code 3.
var errInterrupted = errors.New("cmd: interrupted")

// exitCodeFor implements §6's exit code table.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, errInterrupted):
		return 3
	default:
		return 1
	}
}

// runWalk is the root command's RunE: resolve and validate flags, build
// the query/record/metrics plumbing, and drive the walk to completion.
func runWalk(c *cobra.Command, args []string) error {
	if err := resolveOptions(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	opts.HasLabelCounter = c.Flags().Changed("label-counter")

	initLogger()

	if err := opts.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT)
	defer stop()

	if opts.MetricsAddr != "" {
		svc := metrics.NewService(opts.MetricsAddr)
		go func() {
			if err := metrics.ListenAndServe(ctx, svc); err != nil {
				log.WithPrefix("cmd").Warnf("metrics server stopped: %v", err)
			}
		}()
	}

	err := run(ctx, opts)
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %v", errInterrupted, ctx.Err())
	}

	return err
}

// run builds every subsystem and executes one full walk.
func run(ctx context.Context, o config.Options) error {
	logger := log.WithPrefix("cmd")

	zone, err := name.FromString(o.Zone)
	if err != nil {
		return fmt.Errorf("%w: invalid zone %q: %v", errUsage, o.Zone, err)
	}

	servers, err := ResolveNameservers(ctx, o.Zone, o.Nameservers, o.IPVersion)
	if err != nil {
		return err
	}

	queryInterval := time.Duration(0)
	if o.LimitRate != "" {
		queryInterval, err = config.ParseRateLimit(o.LimitRate)
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
	}

	base := queryprovider.New(servers, queryprovider.Options{
		MaxRetries:    o.MaxRetries,
		MaxErrors:     o.MaxErrors,
		QueryInterval: queryInterval,
		Timeout:       time.Duration(o.Timeout) * time.Millisecond,
	})

	var q walker.Querier = base

	if o.Aggressive > 0 {
		agg := queryprovider.NewAggressive(ctx, base, o.Aggressive, o.QueueElementSize)
		defer agg.Stop()

		q = agg
	}

	if !o.OmitSOACheck {
		if err := CheckSOA(ctx, q, zone); err != nil {
			return fmt.Errorf("pre-flight check failed: %w", err)
		}
	}

	if !o.OmitDNSKeyCheck {
		if err := CheckDNSKEY(ctx, q, zone); err != nil {
			return fmt.Errorf("pre-flight check failed: %w", err)
		}
	}

	nsec3, err := resolveZoneType(ctx, q, zone, o)
	if err != nil {
		return err
	}

	input, output := o.InputOutputFile()

	w, err := openOutput(output, input)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}

	if w != nil {
		defer w.Close()

		if err := w.WriteHeader(o.Zone, walkTitle(nsec3)); err != nil {
			return err
		}
	}

	continuing := output != "" && output == input && output != "-"

	if nsec3 {
		err = walkNSEC3(ctx, q, zone, o, w, input, continuing)
	} else {
		err = walkNSEC(ctx, q, zone, o, w, input, continuing)
	}

	if err != nil {
		return err
	}

	if w != nil {
		if err := w.Sync(); err != nil {
			return err
		}
	}

	if output != "" && output == input {
		if unlinkErr := record.UnlinkBackup(output); unlinkErr != nil {
			logger.Warnf("could not remove backup file: %v", unlinkErr)
		}
	}

	if err := writeResumeState(output, o); err != nil {
		logger.Warnf("could not write resume state: %v", err)
	}

	return nil
}

func walkTitle(nsec3 bool) string {
	if nsec3 {
		return "NSEC3 walk"
	}

	return "NSEC walk"
}

// resolveZoneType honors -3/-n/-a, running auto-detection only when asked.
func resolveZoneType(ctx context.Context, q walker.Querier, zone name.DomainName, o config.Options) (bool, error) {
	switch {
	case o.ForceNSEC3:
		return true, nil
	case o.ForceNSEC:
		return false, nil
	case o.Auto:
		nsec3, err := DetectZoneType(ctx, q, zone, o.DetectionAttempts)
		if err != nil {
			return false, fmt.Errorf("auto-detection failed: %w", err)
		}

		return nsec3, nil
	default:
		return false, fmt.Errorf("%w: one of -a/--auto, -3/--nsec3, -n/--nsec is required", errUsage)
	}
}

func walkNSEC(
	ctx context.Context, q walker.Querier, zone name.DomainName, o config.Options, w *record.Writer,
	input string, continuing bool,
) error {
	start, err := resumeNSEC(input, continuing, w)
	if err != nil {
		return fmt.Errorf("resuming from %s: %w", input, err)
	}

	if o.Start != "" {
		start, err = name.FromString(o.Start)
		if err != nil {
			return fmt.Errorf("%w: invalid start domain %q: %v", errUsage, o.Start, err)
		}
	}

	var end name.DomainName

	if o.End != "" {
		end, err = name.FromString(o.End)
		if err != nil {
			return fmt.Errorf("%w: invalid end domain %q: %v", errUsage, o.End, err)
		}
	}

	alphabet, err := name.ParseAlphabet(o.Alphabet)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	walkMode, err := toWalkerMode(o.WalkMode)
	if err != nil {
		return err
	}

	wk := walker.NewNSECWalker(q, walker.NSECOptions{
		Zone:        zone,
		Mode:        walkMode,
		Alphabet:    alphabet,
		Start:       start,
		End:         end,
		NeverPrefix: o.NeverPrefixLabel,
	})

	metrics.RegisterNSECGauges(wk)

	return wk.Walk(ctx, func(n *rr.NSEC) {
		if w != nil {
			if writeErr := w.WriteNSEC(n); writeErr != nil {
				log.WithPrefix("cmd").Warnf("writing NSEC record: %v", writeErr)
			}
		}
	})
}

func walkNSEC3(
	ctx context.Context, q walker.Querier, zone name.DomainName, o config.Options, w *record.Writer,
	input string, continuing bool,
) error {
	chain, labelCounter, err := resumeNSEC3(input, continuing, w, zone, o.IgnoreOverlapping)
	if err != nil {
		return fmt.Errorf("resuming from %s: %w", input, err)
	}

	if o.HasLabelCounter {
		labelCounter = o.LabelCounter
	}

	var predictor walker.Predictor
	if o.Predict {
		predictor = predict.NewZone(ctx)
	}

	wk := walker.NewNSEC3Walker(q, walker.NSEC3Options{
		Zone:              zone,
		Workers:           o.ResolvedProcesses(),
		ElementSize:       o.QueueElementSize,
		LabelCounterInit:  labelCounter,
		HashLimit:         o.HashLimit,
		IgnoreOverlapping: o.IgnoreOverlapping,
		Aggressive:        o.Aggressive,
		Predictor:         predictor,
	}, chain)

	metrics.RegisterNSEC3Gauges(wk)

	err = wk.Walk(ctx, func(n3 *rr.NSEC3, owner name.DomainName, known bool) {
		if w != nil {
			if writeErr := w.WriteNSEC3(n3); writeErr != nil {
				log.WithPrefix("cmd").Warnf("writing NSEC3 record: %v", writeErr)
			}
		}
	})

	switch {
	case errors.Is(err, walker.ErrHashLimitReached):
		log.WithPrefix("cmd").Warnf("stopped prematurely: %v", err)
	case err != nil:
		return err
	}

	if w != nil {
		return w.WriteLabelCounter(wk.LabelCounter())
	}

	return nil
}

func toWalkerMode(m config.WalkMode) (walker.NSECMode, error) {
	switch m {
	case config.WalkModeMixed:
		return walker.ModeMixed, nil
	case config.WalkModeNsec:
		return walker.ModeNSEC, nil
	case config.WalkModeA:
		return walker.ModeA, nil
	default:
		return 0, fmt.Errorf("%w: unknown walk mode %v", errUsage, m)
	}
}

