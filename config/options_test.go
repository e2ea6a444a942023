package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonion0/n3map/config"
)

func TestWithDefaultsAppliesTags(t *testing.T) {
	o, err := config.WithDefaults()
	require.NoError(t, err)

	assert.Equal(t, 5, o.DetectionAttempts)
	assert.Equal(t, config.WalkModeMixed, o.WalkMode)
	assert.Equal(t, "binary", o.Alphabet)
	assert.Equal(t, 256, o.QueueElementSize)
	assert.Equal(t, 5, o.MaxRetries)
	assert.Equal(t, -1, o.MaxErrors)
	assert.Equal(t, 2500, o.Timeout)
	assert.Equal(t, config.IPVersionDual, o.IPVersion)
}

func TestResolvedProcessesUsesExplicitValue(t *testing.T) {
	o := config.Options{Processes: 4}
	assert.Equal(t, 4, o.ResolvedProcesses())
}

func TestResolvedProcessesFallsBackToCPUCount(t *testing.T) {
	o := config.Options{Processes: 0}
	assert.GreaterOrEqual(t, o.ResolvedProcesses(), 1)
}

func TestValidateRequiresZone(t *testing.T) {
	o := config.Options{}
	assert.Error(t, o.Validate())
}

func TestValidateRejectsConflictingModeFlags(t *testing.T) {
	o := config.Options{Zone: "example.com", Auto: true, ForceNSEC3: true}
	assert.Error(t, o.Validate())
}

func TestValidateRejectsConflictingFileFlags(t *testing.T) {
	o := config.Options{Zone: "example.com", ContinueFile: "state.txt", InputFile: "in.txt"}
	assert.Error(t, o.Validate())
}

func TestValidateAcceptsMinimalOptions(t *testing.T) {
	o := config.Options{Zone: "example.com", MaxRetries: -1, MaxErrors: -1, Timeout: 1, QueueElementSize: 1}
	assert.NoError(t, o.Validate())
}

func TestInputOutputFilePrefersContinueFile(t *testing.T) {
	o := config.Options{ContinueFile: "state.txt"}
	in, out := o.InputOutputFile()
	assert.Equal(t, "state.txt", in)
	assert.Equal(t, "state.txt", out)
}

func TestParseRateLimit(t *testing.T) {
	d, err := config.ParseRateLimit("2/s")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)

	d, err = config.ParseRateLimit("1/m")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	_, err = config.ParseRateLimit("bogus")
	assert.Error(t, err)

	_, err = config.ParseRateLimit("0/s")
	assert.Error(t, err)
}

func TestParseWalkModeRejectsUnknown(t *testing.T) {
	_, err := config.ParseWalkMode("bogus")
	assert.Error(t, err)

	m, err := config.ParseWalkMode("NSEC")
	require.NoError(t, err)
	assert.Equal(t, config.WalkModeNsec, m)
}
