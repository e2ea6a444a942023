package config

import (
	"fmt"
)

// Validate checks option combinations and numeric ranges that cobra's
// flag parsing alone can't express, mirroring map.py's per-flag range
// checks (e.g. "N=-1 means no limit" but N<-1 is rejected).
func (o Options) Validate() error {
	if o.Zone == "" {
		return fmt.Errorf("a zone name is required")
	}

	if o.Auto && (o.ForceNSEC3 || o.ForceNSEC) {
		return fmt.Errorf("-a/--auto is mutually exclusive with -3/--nsec3 and -n/--nsec")
	}

	if o.ForceNSEC3 && o.ForceNSEC {
		return fmt.Errorf("-3/--nsec3 and -n/--nsec are mutually exclusive")
	}

	if o.ContinueFile != "" && (o.InputFile != "" || o.OutputFile != "") {
		return fmt.Errorf("-c/--continue is mutually exclusive with -i/--input and -o/--output")
	}

	if o.MaxRetries < -1 {
		return fmt.Errorf("--max-retries must be >= -1, got %d", o.MaxRetries)
	}

	if o.MaxErrors < -1 {
		return fmt.Errorf("--max-errors must be >= -1, got %d", o.MaxErrors)
	}

	if o.DetectionAttempts < 0 {
		return fmt.Errorf("--detection-attempts must be >= 0, got %d", o.DetectionAttempts)
	}

	if o.Timeout < 1 {
		return fmt.Errorf("--timeout must be >= 1, got %d", o.Timeout)
	}

	if o.Aggressive < 0 {
		return fmt.Errorf("-f/--aggressive must be >= 0, got %d", o.Aggressive)
	}

	if o.Processes < 0 {
		return fmt.Errorf("--processes must be >= 0, got %d", o.Processes)
	}

	if o.QueueElementSize < 1 {
		return fmt.Errorf("--queue-element-size must be >= 1, got %d", o.QueueElementSize)
	}

	if o.LimitRate != "" {
		if _, err := ParseRateLimit(o.LimitRate); err != nil {
			return err
		}
	}

	return nil
}

// InputOutputFile resolves -c/--continue into the effective input and
// output filenames, matching map.py's `options['input'] = options['output'] = arg`.
func (o Options) InputOutputFile() (input, output string) {
	if o.ContinueFile != "" {
		return o.ContinueFile, o.ContinueFile
	}

	return o.InputFile, o.OutputFile
}
