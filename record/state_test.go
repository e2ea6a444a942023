package record_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonion0/n3map/record"
)

func TestWriteReadState(t *testing.T) {
	recordFile := filepath.Join(t.TempDir(), "zone.nsec3")

	want := record.ResumeState{Zone: "example.com.", LimitRate: "2/s"}
	require.NoError(t, record.WriteState(recordFile, want))

	got, err := record.ReadState(recordFile)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadStateMissingSidecarIsNotAnError(t *testing.T) {
	recordFile := filepath.Join(t.TempDir(), "zone.nsec3")

	got, err := record.ReadState(recordFile)
	require.NoError(t, err)
	assert.Equal(t, record.ResumeState{}, got)
}
