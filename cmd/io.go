package cmd

import (
	"fmt"
	"os"

	"github.com/anonion0/n3map/config"
	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/nsec3chain"
	"github.com/anonion0/n3map/record"
)

// openOutput prepares the output writer for a walk. When resuming
// (input != "") from the same file being continued, the existing file is
// moved aside as a backup (record.IntoBackup) so a crash mid-rewrite
// can't lose the last good chain; the backup is removed once the walk
// finishes successfully.
func openOutput(outputFile, inputFile string) (*record.Writer, error) {
	if outputFile == "" {
		return nil, nil //nolint:nilnil // no -o/-c given means "don't persist records"
	}

	if outputFile == "-" {
		return record.NewStdoutWriter(), nil
	}

	if outputFile == inputFile {
		if err := record.IntoBackup(outputFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("backing up %s: %w", outputFile, err)
		}
	}

	return record.OpenOutput(outputFile)
}

// resumeNSEC loads a prior NSEC record file (per -i/-c), replays its
// records into w so the output file stays complete, and returns the
// owner name to resume the walk from. continuing is true when openOutput
// renamed inputFile aside to inputFile~ (the -c case).
func resumeNSEC(inputFile string, continuing bool, w *record.Writer) (start name.DomainName, err error) {
	if inputFile == "" {
		return nil, nil
	}

	source := inputFile
	if continuing {
		source = inputFile + "~"
	}

	r, err := record.OpenInput(source)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", source, err)
	}
	defer r.Close()

	recs, err := r.ReadNSEC()
	if err != nil {
		return nil, err
	}

	if len(recs) == 0 {
		return nil, nil
	}

	for _, n := range recs {
		if w != nil {
			if err := w.WriteNSEC(n); err != nil {
				return nil, err
			}
		}
	}

	return recs[len(recs)-1].Next, nil
}

// resumeNSEC3 is resumeNSEC's NSEC3 counterpart: it additionally rebuilds
// the interval chain and returns the saved pre-hash label counter.
func resumeNSEC3(
	inputFile string, continuing bool, w *record.Writer, zone name.DomainName, ignoreOverlapping bool,
) (chain *nsec3chain.Chain, labelCounter uint64, err error) {
	if inputFile == "" {
		return nil, 0, nil
	}

	source := inputFile
	if continuing {
		source = inputFile + "~"
	}

	r, err := record.OpenInput(source)
	if os.IsNotExist(err) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", source, err)
	}
	defer r.Close()

	recs, err := r.ReadNSEC3()
	if err != nil {
		return nil, 0, err
	}

	chain = nsec3chain.New(zone, ignoreOverlapping)

	for _, n3 := range recs {
		if _, err := chain.Insert(n3, name.DomainName{}, false); err != nil {
			return nil, 0, err
		}

		if w != nil {
			if err := w.WriteNSEC3(n3); err != nil {
				return nil, 0, err
			}
		}
	}

	counter, _ := r.LabelCounter()

	return chain, counter, nil
}

// writeResumeState persists a -c/-i checkpoint's sidecar metadata (the
// rate-limit descriptor a resumed run should keep honoring).
func writeResumeState(outputFile string, o config.Options) error {
	if outputFile == "" || outputFile == "-" {
		return nil
	}

	return record.WriteState(outputFile, record.ResumeState{Zone: o.Zone, LimitRate: o.LimitRate})
}
