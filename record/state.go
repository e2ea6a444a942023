package record

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ResumeState is sidecar metadata for a `-c`/`-i` checkpoint that the
// record-file's own line grammar (§6) has no room for: the rate-limit
// descriptor the run was started with, so a resumed run reapplies the
// same cap rather than silently reverting to unlimited.
type ResumeState struct {
	Zone      string `yaml:"zone"`
	LimitRate string `yaml:"limit_rate,omitempty"`
}

// StatePath returns the sidecar file path for a given record file.
func StatePath(recordFile string) string {
	return recordFile + ".state.yaml"
}

// WriteState marshals st to recordFile's sidecar path.
func WriteState(recordFile string, st ResumeState) error {
	b, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal resume state: %w", err)
	}

	if err := os.WriteFile(StatePath(recordFile), b, 0o644); err != nil {
		return fmt.Errorf("write resume state: %w", err)
	}

	return nil
}

// ReadState loads the sidecar for recordFile. A missing sidecar is not
// an error: older record files, or ones never checkpointed with a rate
// limit, simply have no state to recover.
func ReadState(recordFile string) (ResumeState, error) {
	b, err := os.ReadFile(StatePath(recordFile))
	if os.IsNotExist(err) {
		return ResumeState{}, nil
	}
	if err != nil {
		return ResumeState{}, fmt.Errorf("read resume state: %w", err)
	}

	var st ResumeState
	if err := yaml.Unmarshal(b, &st); err != nil {
		return ResumeState{}, fmt.Errorf("parse resume state: %w", err)
	}

	return st, nil
}
